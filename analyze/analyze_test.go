package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/nettle/form"
	"github.com/rubiojr/nettle/ir"
	"github.com/rubiojr/nettle/macro"
	"github.com/rubiojr/nettle/ns"
)

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(ns.NewRegistry(), macro.NewExpander(), "nettle.core")
}

func TestAnalyzeLiteralIsIdempotent(t *testing.T) {
	a := newTestAnalyzer()
	ctx := NewContext()

	e1, err := a.Analyze(form.Int(3), ctx)
	require.NoError(t, err)
	e2, err := a.Analyze(form.Int(3), ctx)
	require.NoError(t, err)

	assert.Equal(t, e1, e2)
	lit, ok := e1.(*ir.Literal)
	require.True(t, ok)
	assert.Equal(t, form.Int(3), lit.Value)
}

func TestIfSpecialForm(t *testing.T) {
	a := newTestAnalyzer()
	b := form.NewBuilder()
	f := b.List(b.Sym("if"), b.Bool(true), b.Int(1), b.Int(2))

	e, err := a.Analyze(f, NewContext())
	require.NoError(t, err)

	ifExpr, ok := e.(*ir.If)
	require.True(t, ok)
	assert.IsType(t, &ir.Literal{}, ifExpr.Test)
	assert.NotNil(t, ifExpr.Else)
}

func TestLetBindsLocalsSequentially(t *testing.T) {
	a := newTestAnalyzer()
	b := form.NewBuilder()
	// (let [x 1 y x] y) -- y's init should see x as a local.
	f := b.List(b.Sym("let"), b.Vector(b.Sym("x"), b.Int(1), b.Sym("y"), b.Sym("x")), b.Sym("y"))

	e, err := a.Analyze(f, NewContext())
	require.NoError(t, err)

	let, ok := e.(*ir.Let)
	require.True(t, ok)
	require.Len(t, let.Bindings, 2)

	yInit, ok := let.Bindings[1].Init.(*ir.SymbolRef)
	require.True(t, ok)
	assert.True(t, yInit.IsLocal)

	body, ok := let.Body[0].(*ir.SymbolRef)
	require.True(t, ok)
	assert.True(t, body.IsLocal)
}

func TestRecurInsideLoop(t *testing.T) {
	a := newTestAnalyzer()
	b := form.NewBuilder()
	f := b.List(b.Sym("loop"), b.Vector(b.Sym("i"), b.Int(0)),
		b.List(b.Sym("if"), b.List(b.Sym("<"), b.Sym("i"), b.Int(10)),
			b.List(b.Sym("recur"), b.List(b.Sym("inc"), b.Sym("i"))),
			b.Sym("i")))

	e, err := a.Analyze(f, NewContext())
	require.NoError(t, err)

	loop, ok := e.(*ir.Loop)
	require.True(t, ok)
	ifExpr, ok := loop.Body[0].(*ir.If)
	require.True(t, ok)
	_, ok = ifExpr.Then.(*ir.Recur)
	assert.True(t, ok)
}

func TestSymbolResolutionStripsCoreNamespace(t *testing.T) {
	a := newTestAnalyzer()
	b := form.NewBuilder()

	e, err := a.Analyze(b.NSSym("clojure.core", "inc"), NewContext())
	require.NoError(t, err)
	ref, ok := e.(*ir.SymbolRef)
	require.True(t, ok)
	assert.Equal(t, "inc", ref.Symbol.Name)
	assert.Equal(t, "", ref.Symbol.NS)
	assert.False(t, ref.IsLocal)
}

func TestSymbolResolutionLocalWinsOverVar(t *testing.T) {
	a := newTestAnalyzer()
	ctx := NewContext().WithLocalType("x", "")
	b := form.NewBuilder()

	e, err := a.Analyze(b.Sym("x"), ctx)
	require.NoError(t, err)
	ref, ok := e.(*ir.SymbolRef)
	require.True(t, ok)
	assert.True(t, ref.IsLocal)
}

func TestSymbolResolutionUppercaseNamespaceIsStaticProperty(t *testing.T) {
	a := newTestAnalyzer()
	b := form.NewBuilder()

	e, err := a.Analyze(b.NSSym("Math", "PI"), NewContext())
	require.NoError(t, err)
	prop, ok := e.(*ir.StaticProperty)
	require.True(t, ok)
	assert.Equal(t, "Math", prop.TypeName)
	assert.Equal(t, "PI", prop.Name)
}

func TestInstanceMethodAndPropertySugar(t *testing.T) {
	a := newTestAnalyzer()
	b := form.NewBuilder()

	methodCall := b.List(b.Sym(".ToUpper"), b.Str("hi"))
	e, err := a.Analyze(methodCall, NewContext())
	require.NoError(t, err)
	m, ok := e.(*ir.InstanceMethod)
	require.True(t, ok)
	assert.Equal(t, "ToUpper", m.Name)

	propAccess := b.List(b.Sym(".-Length"), b.Str("hi"))
	e2, err := a.Analyze(propAccess, NewContext())
	require.NoError(t, err)
	p, ok := e2.(*ir.InstanceProperty)
	require.True(t, ok)
	assert.Equal(t, "Length", p.Name)
}

func TestConstructorSugar(t *testing.T) {
	a := newTestAnalyzer()
	b := form.NewBuilder()
	f := b.List(b.Sym("StringBuilder."), b.Str("seed"))

	e, err := a.Analyze(f, NewContext())
	require.NoError(t, err)
	n, ok := e.(*ir.New)
	require.True(t, ok)
	assert.Equal(t, "StringBuilder", n.TypeName)
}

// E3 from the spec: primitive-op specialization when every operand's type
// is statically known.
func TestPrimitiveOpSpecializationE3(t *testing.T) {
	a := newTestAnalyzer()
	b := form.NewBuilder()
	xTagged := b.Tagged(b.Sym("x"), b.Sym("long"))
	yTagged := b.Tagged(b.Sym("y"), b.Sym("long"))

	f := b.List(b.Sym("let"), b.Vector(xTagged, b.Int(3), yTagged, b.Int(4)),
		b.List(b.Sym("+"),
			b.List(b.Sym("*"), b.Sym("x"), b.Sym("x")),
			b.List(b.Sym("*"), b.Sym("y"), b.Sym("y"))))

	e, err := a.Analyze(f, NewContext())
	require.NoError(t, err)

	let, ok := e.(*ir.Let)
	require.True(t, ok)
	sum, ok := let.Body[0].(*ir.PrimitiveOp)
	require.True(t, ok, "expected top-level + to specialize to a PrimitiveOp")
	assert.Equal(t, "+", sum.Operator)
	assert.Equal(t, "long", sum.PrimitiveType)

	for _, operand := range sum.Operands {
		mul, ok := operand.(*ir.PrimitiveOp)
		require.True(t, ok, "expected nested * to specialize to a PrimitiveOp")
		assert.Equal(t, "*", mul.Operator)
		assert.Equal(t, "long", mul.PrimitiveType)
	}
}

func TestPrimitiveOpFallsThroughWithoutTypeInfo(t *testing.T) {
	a := newTestAnalyzer()
	b := form.NewBuilder()
	f := b.List(b.Sym("+"), b.Sym("untyped-a"), b.Sym("untyped-b"))

	e, err := a.Analyze(f, NewContext().WithLocalType("untyped-a", "").WithLocalType("untyped-b", ""))
	require.NoError(t, err)
	_, ok := e.(*ir.Invoke)
	assert.True(t, ok, "operands with unknown type must fall through to Invoke")
}

func TestTypeHintWrapsCast(t *testing.T) {
	a := newTestAnalyzer()
	b := form.NewBuilder()
	tagged := b.Tagged(b.Sym("n"), b.Sym("Int32"))

	e, err := a.Analyze(tagged, NewContext().WithLocalType("n", "int"))
	require.NoError(t, err)
	cast, ok := e.(*ir.Cast)
	require.True(t, ok)
	assert.Equal(t, "int", cast.TypeName)
}

func TestAutoAsyncFromTaskTag(t *testing.T) {
	typeName, forcesAsync, ok := extractTag(formWithTag("Task"))
	require.True(t, ok)
	assert.True(t, forcesAsync)
	assert.Equal(t, "Task", typeName)
}

func formWithTag(tagName string) form.Form {
	b := form.NewBuilder()
	return b.Tagged(b.Sym("f"), b.Sym(tagName))
}

func TestWhenDesugarsToIf(t *testing.T) {
	a := newTestAnalyzer()
	b := form.NewBuilder()
	f := b.List(b.Sym("when"), b.Bool(true), b.Int(1), b.Int(2))

	e, err := a.Analyze(f, NewContext())
	require.NoError(t, err)
	ifExpr, ok := e.(*ir.If)
	require.True(t, ok)
	do, ok := ifExpr.Then.(*ir.Do)
	require.True(t, ok)
	assert.Len(t, do.Exprs, 2)
	assert.Nil(t, ifExpr.Else)
}

func TestCondDesugarsToNestedIf(t *testing.T) {
	a := newTestAnalyzer()
	b := form.NewBuilder()
	f := b.List(b.Sym("cond"),
		b.Bool(false), b.Int(1),
		b.Bool(true), b.Int(2))

	e, err := a.Analyze(f, NewContext())
	require.NoError(t, err)
	outer, ok := e.(*ir.If)
	require.True(t, ok)
	inner, ok := outer.Else.(*ir.If)
	require.True(t, ok)
	tail, ok := inner.Else.(*ir.Literal)
	require.True(t, ok)
	assert.Equal(t, form.NilForm, tail.Value)
}

func TestAndShortCircuitsThroughFreshLet(t *testing.T) {
	a := newTestAnalyzer()
	b := form.NewBuilder()
	f := b.List(b.Sym("and"), b.Bool(true), b.Int(1))

	e, err := a.Analyze(f, NewContext())
	require.NoError(t, err)
	let, ok := e.(*ir.Let)
	require.True(t, ok)
	require.Len(t, let.Bindings, 1)
	ifExpr, ok := let.Body[0].(*ir.If)
	require.True(t, ok)
	assert.NotNil(t, ifExpr.Else)
}

func TestThreadFirstRewritesArgPosition(t *testing.T) {
	a := newTestAnalyzer()
	b := form.NewBuilder()
	// (-> 1 (+ 2) (* 3)) => (* (+ 1 2) 3)
	f := b.List(b.Sym("->"), b.Int(1),
		b.List(b.Sym("+"), b.Int(2)),
		b.List(b.Sym("*"), b.Int(3)))

	e, err := a.Analyze(f, NewContext())
	require.NoError(t, err)
	mul, ok := e.(*ir.PrimitiveOp)
	require.True(t, ok)
	assert.Equal(t, "*", mul.Operator)
}

func TestThreadLastAppendsArg(t *testing.T) {
	a := newTestAnalyzer()
	b := form.NewBuilder()
	// (->> 1 (+ 2)) => (+ 2 1)
	f := b.List(b.Sym("->>"), b.Int(1), b.List(b.Sym("+"), b.Int(2)))

	e, err := a.Analyze(f, NewContext())
	require.NoError(t, err)
	add, ok := e.(*ir.PrimitiveOp)
	require.True(t, ok)
	assert.Equal(t, "+", add.Operator)
}

func TestDotoThreadsTargetAndReturnsIt(t *testing.T) {
	a := newTestAnalyzer()
	b := form.NewBuilder()
	f := b.List(b.Sym("doto"), b.Str("seed"), b.List(b.Sym(".Trim")))

	e, err := a.Analyze(f, NewContext())
	require.NoError(t, err)
	let, ok := e.(*ir.Let)
	require.True(t, ok)
	require.Len(t, let.Body, 2)
	_, ok = let.Body[0].(*ir.InstanceMethod)
	assert.True(t, ok)
	ref, ok := let.Body[1].(*ir.SymbolRef)
	require.True(t, ok)
	assert.True(t, ref.IsLocal)
}

func TestCommentAnalyzesToNilLiteral(t *testing.T) {
	a := newTestAnalyzer()
	b := form.NewBuilder()
	f := b.List(b.Sym("comment"), b.List(b.Sym("whatever"), b.Int(1)))

	e, err := a.Analyze(f, NewContext())
	require.NoError(t, err)
	lit, ok := e.(*ir.Literal)
	require.True(t, ok)
	assert.Equal(t, form.NilForm, lit.Value)
}

func TestGenericMethodNameParsing(t *testing.T) {
	base, typeArgs := parseGenericMethodName("GetValue<string,int>")
	assert.Equal(t, "GetValue", base)
	assert.Equal(t, []string{"string", "int"}, typeArgs)

	base, typeArgs = parseGenericMethodName("|Cast<List<int>>|")
	assert.Equal(t, "Cast", base)
	assert.Equal(t, []string{"List<int>"}, typeArgs)
}

func TestDeftypeCollectsFieldsAndMethods(t *testing.T) {
	a := newTestAnalyzer()
	b := form.NewBuilder()
	f := b.List(b.Sym("deftype"), b.Sym("Point"), b.Vector(b.Sym("x"), b.Sym("y")),
		b.List(b.Sym("ToString"), b.Vector(b.Sym("this"))))

	e, err := a.Analyze(f, NewContext())
	require.NoError(t, err)
	dt, ok := e.(*ir.Deftype)
	require.True(t, ok)
	assert.Equal(t, "Point", dt.Name)
	require.Len(t, dt.Fields, 2)
	require.Len(t, dt.Methods, 1)
	assert.Equal(t, "ToString", dt.Methods[0].Name)
}

func TestDeftestAndIs(t *testing.T) {
	a := newTestAnalyzer()
	b := form.NewBuilder()
	f := b.List(b.Sym("deftest"), b.Sym("adds"),
		b.List(b.Sym("is"), b.List(b.Sym("="), b.Int(4), b.List(b.Sym("+"), b.Int(2), b.Int(2)))))

	e, err := a.Analyze(f, NewContext())
	require.NoError(t, err)
	dt, ok := e.(*ir.Deftest)
	require.True(t, ok)
	assert.Equal(t, "adds", dt.Name)
	require.Len(t, dt.Body, 1)
	_, ok = dt.Body[0].(*ir.Is)
	assert.True(t, ok)
}

func TestAnalyzeFileRejectsMultipleNsForms(t *testing.T) {
	a := newTestAnalyzer()
	b := form.NewBuilder()
	forms := []form.Form{
		b.List(b.Sym("ns"), b.Sym("one.two")),
		b.List(b.Sym("ns"), b.Sym("three.four")),
	}

	_, err := a.AnalyzeFile(forms)
	require.Error(t, err)
}

func TestAnalyzeFileCapturesNamespace(t *testing.T) {
	a := newTestAnalyzer()
	b := form.NewBuilder()
	forms := []form.Form{
		b.List(b.Sym("ns"), b.Sym("my.app.core")),
		b.List(b.Sym("def"), b.Sym("answer"), b.Int(42)),
	}

	unit, err := a.AnalyzeFile(forms)
	require.NoError(t, err)
	assert.Equal(t, "my.app.core", unit.Namespace)
	require.Len(t, unit.Exprs, 2)
}

func TestRawHostEscapeBuildsInterpolations(t *testing.T) {
	a := newTestAnalyzer()
	b := form.NewBuilder()
	f := b.List(b.Sym("csharp*"), b.Str("Console.WriteLine(~{msg})"), b.Sym("msg"), b.Str("hi"))

	e, err := a.Analyze(f, NewContext())
	require.NoError(t, err)
	rh, ok := e.(*ir.RawHost)
	require.True(t, ok)
	assert.Equal(t, "Console.WriteLine(~{msg})", rh.Template)
	require.Len(t, rh.Interps, 1)
	assert.Equal(t, "msg", rh.Interps[0].Placeholder)
}

func TestDefmacroRegistersAndExpands(t *testing.T) {
	a := newTestAnalyzer()
	b := form.NewBuilder()

	defmacro := b.List(b.Sym("defmacro"), b.Sym("my-when"), b.Vector(b.Sym("test"), b.Sym("body")),
		b.List(b.Sym("list"), b.Sym("if"), b.Sym("test"), b.Sym("body")))
	_, err := a.Analyze(defmacro, NewContext())
	require.NoError(t, err)
	assert.True(t, a.Macros.IsMacro("my-when"))

	// Expansion binds the call's arguments to the parameter names in a let
	// wrapped around the macro body.
	expanded, err := a.Macros.MacroexpandOnce(b.List(b.Sym("my-when"), b.Bool(true), b.Int(1)))
	require.NoError(t, err)
	head, ok := form.HeadSymbol(expanded)
	require.True(t, ok)
	assert.Equal(t, "let", head)
}
