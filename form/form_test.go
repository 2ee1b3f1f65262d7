package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordInterning(t *testing.T) {
	a := InternKeyword("ns", "name")
	b := InternKeyword("ns", "name")
	assert.Same(t, a, b, "two keywords with the same (ns, name) must be identical")

	c := InternKeyword("", "name")
	assert.NotSame(t, a, c)
}

func TestSymbolEqualityIsStructural(t *testing.T) {
	a := &Symbol{NS: "foo", Name: "bar"}
	b := &Symbol{NS: "foo", Name: "bar"}
	assert.NotSame(t, a, b)
	assert.True(t, a.Equal(b))
}

func TestMetaTagRoundTrip(t *testing.T) {
	b := NewBuilder()
	sym := b.Sym("x")
	tagged := b.Tagged(sym, b.NSSym("", "long"))

	tag, ok := tagged.Meta.Tag()
	require.True(t, ok)
	tagSym, ok := tag.(*Symbol)
	require.True(t, ok)
	assert.Equal(t, "long", tagSym.Name)

	// The original symbol is untouched — metadata updates are copy-on-write.
	_, ok = sym.Meta.Tag()
	assert.False(t, ok)
}

func TestBuilderMapOfOddArgsPanics(t *testing.T) {
	b := NewBuilder()
	assert.Panics(t, func() {
		b.MapOf(b.Kw("a"))
	})
}

func TestHeadSymbol(t *testing.T) {
	b := NewBuilder()
	lst := b.List(b.Sym("+"), b.Int(1), b.Int(2))
	name, ok := HeadSymbol(lst)
	require.True(t, ok)
	assert.Equal(t, "+", name)
}
