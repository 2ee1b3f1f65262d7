package form

// Meta is an ordered-irrelevant mapping from Keyword to arbitrary value,
// attached to symbols and collection forms (spec §3). The zero value is not
// usable; use NewMeta.
type Meta struct {
	entries map[*Keyword]any
}

// NewMeta builds a Meta from key/value pairs.
func NewMeta(pairs ...Pair) *Meta {
	m := &Meta{entries: make(map[*Keyword]any, len(pairs))}
	for _, p := range pairs {
		kw, ok := p.Key.(*Keyword)
		if !ok {
			continue
		}
		m.entries[kw] = p.Value
	}
	return m
}

// Get returns the value stored under kw and whether it was present.
func (m *Meta) Get(kw *Keyword) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.entries[kw]
	return v, ok
}

// With returns a copy of m with kw set to v, leaving m unmodified. Metadata
// is treated as immutable once attached to a form, the same way the
// analyzer's AnalyzerContext is updated by copy (§4.3).
func (m *Meta) With(kw *Keyword, v any) *Meta {
	out := &Meta{entries: make(map[*Keyword]any, len(m.entries)+1)}
	if m != nil {
		for k, val := range m.entries {
			out.entries[k] = val
		}
	}
	out.entries[kw] = v
	return out
}

var (
	kwTag     = InternKeyword("", "tag")
	kwAttr    = InternKeyword("", "attr")
	kwAsync   = InternKeyword("", "async")
	kwExtends = InternKeyword("", "extends")
)

// Tag returns the :tag metadata value (a *Symbol or String naming a host
// type) and whether it was present.
func (m *Meta) Tag() (Form, bool) {
	v, ok := m.Get(kwTag)
	if !ok {
		return nil, false
	}
	f, ok := v.(Form)
	return f, ok
}

// Attr returns the :attr metadata vector of host-level attribute
// specifications, or nil if absent.
func (m *Meta) Attr() *Vector {
	v, ok := m.Get(kwAttr)
	if !ok {
		return nil
	}
	vec, _ := v.(*Vector)
	return vec
}

// Extends returns the :extends metadata vector of extra base interfaces for
// a deftype/defrecord, or nil if absent.
func (m *Meta) Extends() *Vector {
	v, ok := m.Get(kwExtends)
	if !ok {
		return nil
	}
	vec, _ := v.(*Vector)
	return vec
}

// Async reports whether :async is present and truthy.
func (m *Meta) Async() bool {
	v, ok := m.Get(kwAsync)
	if !ok {
		return false
	}
	b, ok := v.(Bool)
	return ok && bool(b)
}
