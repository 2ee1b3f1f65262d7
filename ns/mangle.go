package ns

import "strings"

// MangleNamespace maps a Clojure namespace name to its host namespace and
// synthesized class name (spec §4.2, §6): split on '.', drop hyphens,
// capitalize each segment; the last segment becomes the class name; when
// that class name would be "Main" it becomes "Program" to avoid clashing
// with the emitted entry point.
//
//	foo-bar.baz -> host namespace "FooBar.Baz", host class "Baz"
func MangleNamespace(clojureNS string) (hostNamespace, className string) {
	segments := strings.Split(clojureNS, ".")
	mangled := make([]string, 0, len(segments))
	for _, seg := range segments {
		mangled = append(mangled, pascalSegment(seg))
	}
	if len(mangled) == 0 {
		return "", "Program"
	}
	className = mangled[len(mangled)-1]
	if className == "Main" {
		className = "Program"
		mangled[len(mangled)-1] = className
	}
	hostNamespace = strings.Join(mangled, ".")
	return hostNamespace, className
}

// pascalSegment drops hyphens and capitalizes the resulting words, e.g.
// "foo-bar" -> "FooBar".
func pascalSegment(seg string) string {
	words := strings.Split(seg, "-")
	var b strings.Builder
	for _, w := range words {
		if w == "" {
			continue
		}
		b.WriteString(strings.ToUpper(w[:1]))
		if len(w) > 1 {
			b.WriteString(w[1:])
		}
	}
	return b.String()
}
