package form

// Builder centralizes form construction for tests and for the macro
// expander's expansion results, the same way rugo/ast.Factory centralizes
// AST node creation for transform passes: one place to keep construction
// consistent rather than scattering struct literals everywhere.
type Builder struct{}

// NewBuilder returns a new Builder.
func NewBuilder() *Builder { return &Builder{} }

func (Builder) Sym(name string) *Symbol           { return &Symbol{Name: name} }
func (Builder) NSSym(ns, name string) *Symbol     { return &Symbol{NS: ns, Name: name} }
func (Builder) Kw(name string) *Keyword           { return InternKeyword("", name) }
func (Builder) NSKw(ns, name string) *Keyword      { return InternKeyword(ns, name) }
func (Builder) Int(v int64) Int                   { return Int(v) }
func (Builder) Float(v float64) Float             { return Float(v) }
func (Builder) Str(v string) String               { return String(v) }
func (Builder) Bool(v bool) Bool                  { return Bool(v) }
func (Builder) Nil() Form                         { return NilForm }

// List builds a List form from the given items, with no metadata.
func (Builder) List(items ...Form) *List { return &List{Items: items} }

// Vector builds a Vector form from the given items, with no metadata.
func (Builder) Vector(items ...Form) *Vector { return &Vector{Items: items} }

// Set builds a Set form from the given items, with no metadata.
func (Builder) Set(items ...Form) *Set { return &Set{Items: items} }

// MapOf builds a Map form from alternating key/value forms, e.g.
// MapOf(kw1, v1, kw2, v2). Panics if given an odd number of arguments,
// mirroring the analyzer's own even-bindings-vector requirement (§4.3).
func (Builder) MapOf(kvs ...Form) *Map {
	if len(kvs)%2 != 0 {
		panic("form: MapOf requires an even number of arguments")
	}
	m := &Map{Pairs: make([]Pair, 0, len(kvs)/2)}
	for i := 0; i < len(kvs); i += 2 {
		m.Pairs = append(m.Pairs, Pair{Key: kvs[i], Value: kvs[i+1]})
	}
	return m
}

// Tagged returns a copy of sym with :tag metadata set to tag (a *Symbol or
// String).
func (Builder) Tagged(sym *Symbol, tag Form) *Symbol {
	cp := *sym
	cp.Meta = cp.Meta.With(kwTag, tag)
	return &cp
}
