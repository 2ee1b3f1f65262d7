package macro

import (
	"testing"

	"github.com/rubiojr/nettle/form"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMacroUnregistered(t *testing.T) {
	e := NewExpander()
	assert.False(t, e.IsMacro("unless"))
}

func TestMacroexpandOnceAndFixedPoint(t *testing.T) {
	b := form.NewBuilder()
	e := NewExpander()

	// (unless test then) => (if test nil then)
	e.Register("unless", func(call *form.List) (form.Form, error) {
		args := call.Items[1:]
		return b.List(b.Sym("if"), args[0], b.Nil(), args[1]), nil
	})

	// (maybe-unless x) => (unless x :a :b) => (if x nil :a)
	e.Register("maybe-unless", func(call *form.List) (form.Form, error) {
		args := call.Items[1:]
		return b.List(b.Sym("unless"), args[0], b.Kw("a"), b.Kw("b")), nil
	})

	call := b.List(b.Sym("maybe-unless"), b.Sym("x"))
	expanded, err := e.Macroexpand(call)
	require.NoError(t, err)

	lst, ok := expanded.(*form.List)
	require.True(t, ok)
	require.Len(t, lst.Items, 4)
	headName, _ := form.HeadSymbol(lst)
	assert.Equal(t, "if", headName)
}

func TestQualifiedSymbolsAreNeverMacros(t *testing.T) {
	b := form.NewBuilder()
	e := NewExpander()
	e.Register("unless", func(call *form.List) (form.Form, error) {
		return b.Kw("expanded"), nil
	})

	call := b.List(b.NSSym("other.ns", "unless"), b.Sym("x"))
	expanded, err := e.Macroexpand(call)
	require.NoError(t, err)
	assert.Same(t, form.Form(call), expanded)
}

func TestGensymUniqueness(t *testing.T) {
	a := Gensym("tmp")
	b2 := Gensym("tmp")
	assert.NotEqual(t, a, b2)
	assert.Contains(t, a, "tmp__")
}

func TestSyntaxQuoteAutoGensymConsistentWithinExpansion(t *testing.T) {
	b := form.NewBuilder()
	// `(let [x# 1] (+ x# x#))
	tmpl := b.List(b.Sym("let"), b.Vector(b.Sym("x#"), b.Int(1)), b.List(b.Sym("+"), b.Sym("x#"), b.Sym("x#")))

	expanded := SyntaxQuote(tmpl)
	lst := expanded.(*form.List)
	bindings := lst.Items[1].(*form.Vector)
	boundName := bindings.Items[0].(*form.Symbol).Name

	body := lst.Items[2].(*form.List)
	ref1 := body.Items[1].(*form.Symbol).Name
	ref2 := body.Items[2].(*form.Symbol).Name

	assert.Equal(t, boundName, ref1)
	assert.Equal(t, boundName, ref2)
	assert.NotEqual(t, "x#", boundName)
}

func TestUnquoteLeftForEvalAfterSyntaxQuote(t *testing.T) {
	b := form.NewBuilder()
	unq := b.List(b.NSSym(coreNS, "unquote"), b.Sym("y"))
	tmpl := b.List(b.Sym("foo"), unq)

	expanded := SyntaxQuote(tmpl)
	lst := expanded.(*form.List)
	inner, ok := UnquoteInner(lst.Items[1])
	require.True(t, ok)
	sym := inner.(*form.Symbol)
	assert.Equal(t, "y", sym.Name)
}
