package macro

import (
	"strings"

	"github.com/rubiojr/nettle/form"
)

const coreNS = "clojure.core"

// SyntaxQuote implements the `syntax-quote (also written `form) special
// form (spec §4.1, §4.3): symbols ending in '#' are consistently renamed to
// a fresh gensym for the duration of one expansion (auto-gensym), plain
// symbols are left as-is (macros run at expansion time, not read time, so
// there is no namespace-qualification step to perform here), and
// `(clojure.core/unquote x)` / `(clojure.core/unquote-splicing x)` escapes
// are left unchanged in the returned template; UnquoteInner and
// IsUnquoteSplicing let a caller find them.
func SyntaxQuote(f form.Form) form.Form {
	gensyms := make(map[string]string)
	return syntaxQuote(f, gensyms)
}

func syntaxQuote(f form.Form, gensyms map[string]string) form.Form {
	switch v := f.(type) {
	case *form.Symbol:
		if v.NS == "" && strings.HasSuffix(v.Name, "#") {
			base := strings.TrimSuffix(v.Name, "#")
			name, ok := gensyms[base]
			if !ok {
				name = Gensym(base)
				gensyms[base] = name
			}
			return &form.Symbol{Name: name}
		}
		return v
	case *form.List:
		if isUnquote(v) {
			return v // left unchanged for the caller
		}
		items := make([]form.Form, len(v.Items))
		for i, it := range v.Items {
			items[i] = syntaxQuote(it, gensyms)
		}
		return &form.List{Items: items, Meta: v.Meta}
	case *form.Vector:
		items := make([]form.Form, len(v.Items))
		for i, it := range v.Items {
			items[i] = syntaxQuote(it, gensyms)
		}
		return &form.Vector{Items: items, Meta: v.Meta}
	case *form.Set:
		items := make([]form.Form, len(v.Items))
		for i, it := range v.Items {
			items[i] = syntaxQuote(it, gensyms)
		}
		return &form.Set{Items: items, Meta: v.Meta}
	case *form.Map:
		pairs := make([]form.Pair, len(v.Pairs))
		for i, p := range v.Pairs {
			pairs[i] = form.Pair{Key: syntaxQuote(p.Key, gensyms), Value: syntaxQuote(p.Value, gensyms)}
		}
		return &form.Map{Pairs: pairs, Meta: v.Meta}
	default:
		return f // literals are inert
	}
}

// isUnquote reports whether lst is `(clojure.core/unquote x)` or
// `(clojure.core/unquote-splicing x)`.
func isUnquote(lst *form.List) bool {
	if len(lst.Items) != 2 {
		return false
	}
	sym, ok := lst.Items[0].(*form.Symbol)
	if !ok || sym.NS != coreNS {
		return false
	}
	return sym.Name == "unquote" || sym.Name == "unquote-splicing"
}

// IsUnquoteSplicing reports whether f is an `~@x` escape, which the caller
// (the analyzer building a collection literal's elements) must splice
// rather than nest.
func IsUnquoteSplicing(f form.Form) (inner form.Form, ok bool) {
	lst, isList := f.(*form.List)
	if !isList || len(lst.Items) != 2 {
		return nil, false
	}
	sym, ok := lst.Items[0].(*form.Symbol)
	if !ok || sym.NS != coreNS || sym.Name != "unquote-splicing" {
		return nil, false
	}
	return lst.Items[1], true
}

// UnquoteInner returns the wrapped expression of a plain `~x` escape.
func UnquoteInner(f form.Form) (inner form.Form, ok bool) {
	lst, isList := f.(*form.List)
	if !isList || len(lst.Items) != 2 {
		return nil, false
	}
	sym, ok := lst.Items[0].(*form.Symbol)
	if !ok || sym.NS != coreNS || sym.Name != "unquote" {
		return nil, false
	}
	return lst.Items[1], true
}
