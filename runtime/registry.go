// Package runtime holds the host-language (C#) support library that every
// unit the emitter produces depends on (spec §4.5): persistent collections,
// the Var registry, generic arithmetic, atoms/refs/STM, agents,
// multimethods, lazy sequences and transducers, and channels.
//
// Nettle's compiler, like its teacher, targets a language other than Go
// (rugo → Go, nettle → C#), and a transpiler's runtime library is written
// in the *target* language, not the host one: rugo's modules/*/runtime.go
// files are literal Go source go:embed'd and concatenated into the
// generated program (see rugo/compiler/codegen_runtime.go's buildRuntimeCode,
// modules/module.go's FullRuntime). Nettle follows the same shape one level
// removed: each runtime/* subpackage go:embeds a .cs file holding the C#
// implementation of one contract and self-registers it here; internal/compiler
// writes the assembled library into a runtime source file beside the
// generated program.
package runtime

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Unit is one self-contained slice of the host runtime library.
type Unit struct {
	// Name is the contract name (spec §4.5): "coll", "vars", "num", "ref",
	// "agent", "multi", "seq", "chan".
	Name string
	// Doc is a one-line description of the unit.
	Doc string
	// Source is the C# source implementing the contract. Each unit declares
	// its own types inside the Nettle.Runtime namespace, so units concatenate
	// verbatim into one file.
	Source string
}

var (
	mu       sync.Mutex
	registry = make(map[string]*Unit)
)

// Register adds a runtime unit to the global registry. Called from each
// subpackage's init(), mirroring rugo/modules.Register's self-registration
// idiom (a family of independent capability providers registering into a
// shared, mutex-guarded map at program init, per SPEC_FULL §8).
func Register(u *Unit) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[u.Name]; exists {
		panic(fmt.Sprintf("runtime: duplicate registration for %q", u.Name))
	}
	registry[u.Name] = u
}

// Get returns a registered unit by name.
func Get(name string) (*Unit, bool) {
	mu.Lock()
	defer mu.Unlock()
	u, ok := registry[name]
	return u, ok
}

// Names returns the sorted names of every registered unit.
func Names() []string {
	mu.Lock()
	defer mu.Unlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Source concatenates the named units' C# source in the given order,
// separated by a blank line. Unknown names are skipped silently so a
// compilation unit can request "whatever runtime contracts it imports"
// without the caller pre-filtering against Names().
func Source(names ...string) string {
	mu.Lock()
	units := make([]*Unit, 0, len(names))
	for _, name := range names {
		if u, ok := registry[name]; ok {
			units = append(units, u)
		}
	}
	mu.Unlock()

	var sb strings.Builder
	for i, u := range units {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(u.Source)
		if !strings.HasSuffix(u.Source, "\n") {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// All concatenates every registered unit's source in name order. This is
// what a freestanding `nettlec build` uses when it has no import-tracking
// information yet (spec.md's non-goals exclude a full dependency-resolution
// pass at this layer) and simply ships the whole library.
func All() string {
	return Source(Names()...)
}
