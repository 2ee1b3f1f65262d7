package sexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/nettle/form"
)

func readOne(t *testing.T, src string) form.Form {
	t.Helper()
	forms, err := New([]byte(src), "test.nt").ReadAll()
	require.NoError(t, err)
	require.Len(t, forms, 1)
	return forms[0]
}

func TestReadsAtoms(t *testing.T) {
	assert.Equal(t, form.Int(42), readOne(t, "42"))
	assert.Equal(t, form.Int(-7), readOne(t, "-7"))
	assert.Equal(t, form.Float(1.5), readOne(t, "1.5"))
	assert.Equal(t, form.Decimal("1.10"), readOne(t, "1.10M"))
	assert.Equal(t, form.Bool(true), readOne(t, "true"))
	assert.Equal(t, form.Bool(false), readOne(t, "false"))
	assert.Equal(t, form.NilForm, readOne(t, "nil"))
	assert.Equal(t, form.String("hi\n"), readOne(t, `"hi\n"`))
}

func TestReadsSymbolsAndKeywords(t *testing.T) {
	sym := readOne(t, "foo/bar").(*form.Symbol)
	assert.Equal(t, "foo", sym.NS)
	assert.Equal(t, "bar", sym.Name)

	kw := readOne(t, ":baz").(*form.Keyword)
	assert.Equal(t, "baz", kw.Name)
	assert.Same(t, kw, form.InternKeyword("", "baz"))
}

func TestReadsChar(t *testing.T) {
	assert.Equal(t, form.Char('a'), readOne(t, `\a`))
	assert.Equal(t, form.Char('\n'), readOne(t, `\newline`))
	assert.Equal(t, form.Char(' '), readOne(t, `\space`))
}

func TestReadsListVectorMapSet(t *testing.T) {
	lst := readOne(t, "(+ 1 2)").(*form.List)
	require.Len(t, lst.Items, 3)
	assert.Equal(t, form.Int(1), lst.Items[1])

	vec := readOne(t, "[1 2 3]").(*form.Vector)
	assert.Len(t, vec.Items, 3)

	m := readOne(t, `{:a 1 :b 2}`).(*form.Map)
	require.Len(t, m.Pairs, 2)
	assert.Equal(t, form.Int(1), m.Pairs[0].Value)

	set := readOne(t, "#{1 2 3}").(*form.Set)
	assert.Len(t, set.Items, 3)
}

func TestMapWithOddFormsIsError(t *testing.T) {
	_, err := New([]byte(`{:a 1 :b}`), "test.nt").ReadAll()
	assert.Error(t, err)
}

func TestUnclosedListIsError(t *testing.T) {
	_, err := New([]byte(`(foo bar`), "test.nt").ReadAll()
	assert.Error(t, err)
}

func TestReaderMacrosDesugar(t *testing.T) {
	q := readOne(t, "'x").(*form.List)
	require.Len(t, q.Items, 2)
	assert.Equal(t, "quote", q.Items[0].(*form.Symbol).Name)

	sq := readOne(t, "`x").(*form.List)
	assert.Equal(t, "syntax-quote", sq.Items[0].(*form.Symbol).Name)

	uq := readOne(t, "~x").(*form.List)
	assert.Equal(t, "unquote", uq.Items[0].(*form.Symbol).Name)

	uqs := readOne(t, "~@x").(*form.List)
	assert.Equal(t, "unquote-splicing", uqs.Items[0].(*form.Symbol).Name)
}

func TestDiscardSkipsFollowingForm(t *testing.T) {
	forms, err := New([]byte("(a #_ (b c) d)"), "test.nt").ReadAll()
	require.NoError(t, err)
	lst := forms[0].(*form.List)
	require.Len(t, lst.Items, 2)
	assert.Equal(t, "a", lst.Items[0].(*form.Symbol).Name)
	assert.Equal(t, "d", lst.Items[1].(*form.Symbol).Name)
}

func TestMetaPrefixAttachesToSymbol(t *testing.T) {
	sym := readOne(t, "^String x").(*form.Symbol)
	require.NotNil(t, sym.Meta)
	tag, ok := sym.Meta.Tag()
	assert.True(t, ok)
	assert.Equal(t, "String", tag.(*form.Symbol).Name)
}

func TestSkipsCommentsAndCommas(t *testing.T) {
	forms, err := New([]byte("; a leading comment\n(1, 2 ,3) ; trailing\n"), "test.nt").ReadAll()
	require.NoError(t, err)
	require.Len(t, forms, 1)
	lst := forms[0].(*form.List)
	assert.Len(t, lst.Items, 3)
}

func TestReadAllReadsMultipleTopLevelForms(t *testing.T) {
	forms, err := New([]byte("(ns foo)\n(defn bar [] 1)\n"), "test.nt").ReadAll()
	require.NoError(t, err)
	require.Len(t, forms, 2)
}
