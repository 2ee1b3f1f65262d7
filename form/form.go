// Package form defines the algebraic value universe the reader produces and
// the analyzer consumes: symbols, keywords, literals, lists, vectors, maps,
// sets, each with optional attached metadata (spec §3).
package form

import "fmt"

// Form is the sum type every node in the parsed-form universe implements.
// Kinds are distinguished by a type switch at the point of use, the same
// tagged-union style rugo/ast uses for its Node/Statement/Expr interfaces.
type Form interface {
	form()
}

// nilForm is the literal nil. There is exactly one value of this type; use
// the NilForm variable, not a zero-value literal, so identity checks work.
type nilForm struct{}

func (nilForm) form() {}

// NilForm is the singleton nil form.
var NilForm Form = nilForm{}

// Bool wraps a boolean literal.
type Bool bool

func (Bool) form() {}

// Int wraps a 64-bit integer literal.
type Int int64

func (Int) form() {}

// Float wraps a 64-bit floating point literal.
type Float float64

func (Float) form() {}

// Decimal wraps an arbitrary-precision decimal literal in its exact source
// text (e.g. "1.10M"); the core never needs to do decimal arithmetic on it,
// only to pass it through to the emitted host literal, so a string is
// sufficient and avoids pulling in a big-decimal library no example repo in
// the pack uses.
type Decimal string

func (Decimal) form() {}

// Char wraps a single Unicode code point literal (\a, \newline, ...).
type Char rune

func (Char) form() {}

// String wraps a string literal.
type String string

func (String) form() {}

// Symbol is a non-interned name-with-optional-namespace. Equality is by
// (NS, Name); two distinct Symbol values with the same fields are equal but
// not identical, unlike Keyword (spec §3).
type Symbol struct {
	NS   string
	Name string
	Meta *Meta // optional
}

func (*Symbol) form() {}

// Equal reports whether two symbols name the same (ns, name) pair,
// ignoring metadata.
func (s *Symbol) Equal(o *Symbol) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.NS == o.NS && s.Name == o.Name
}

func (s *Symbol) String() string {
	if s.NS == "" {
		return s.Name
	}
	return s.NS + "/" + s.Name
}

// List is an ordered sequence form, used for both code (operator-first
// invocation syntax) and data.
type List struct {
	Items []Form
	Meta  *Meta
}

func (*List) form() {}

// Vector is an ordered sequence form written with square brackets.
type Vector struct {
	Items []Form
	Meta  *Meta
}

func (*Vector) form() {}

// Pair is one key/value entry of a Map form. Maps preserve insertion order
// in the parsed form even though Clojure map equality does not depend on it.
type Pair struct {
	Key   Form
	Value Form
}

// Map is an associative form written with curly braces.
type Map struct {
	Pairs []Pair
	Meta  *Meta
}

func (*Map) form() {}

// Set is an unordered-equality collection form written #{...}.
type Set struct {
	Items []Form
	Meta  *Meta
}

func (*Set) form() {}

// MetaOf returns the metadata attached to f, or nil if f carries none or
// cannot carry any (symbols and the four collection kinds can; everything
// else returns nil).
func MetaOf(f Form) *Meta {
	switch v := f.(type) {
	case *Symbol:
		return v.Meta
	case *List:
		return v.Meta
	case *Vector:
		return v.Meta
	case *Map:
		return v.Meta
	case *Set:
		return v.Meta
	default:
		return nil
	}
}

// IsCollection reports whether f is a List, Vector, Map, or Set.
func IsCollection(f Form) bool {
	switch f.(type) {
	case *List, *Vector, *Map, *Set:
		return true
	default:
		return false
	}
}

// Head returns the first item of a List, or (nil, false) if f is not a
// non-empty list. Used throughout the analyzer to dispatch on the operator
// position.
func Head(f Form) (Form, bool) {
	l, ok := f.(*List)
	if !ok || len(l.Items) == 0 {
		return nil, false
	}
	return l.Items[0], true
}

// HeadSymbol returns the unqualified name of a list's head symbol, or
// ("", false) if the head is not a Symbol.
func HeadSymbol(f Form) (string, bool) {
	h, ok := Head(f)
	if !ok {
		return "", false
	}
	sym, ok := h.(*Symbol)
	if !ok {
		return "", false
	}
	return sym.Name, true
}

// GoString renders a Form approximately for diagnostics; it is not a reader
// round-trip guarantee.
func GoString(f Form) string {
	return fmt.Sprintf("%v", f)
}
