package emit

import (
	"testing"

	"github.com/rubiojr/nettle/form"
	"github.com/rubiojr/nettle/ir"
	"github.com/stretchr/testify/assert"
)

func lit(i int64) *ir.Literal { return &ir.Literal{Value: form.Int(i)} }

func sym(name string, local bool) *ir.SymbolRef {
	return &ir.SymbolRef{Symbol: &form.Symbol{Name: name}, IsLocal: local}
}

func TestMangleIdent_OperatorsAndReserved(t *testing.T) {
	assert.Equal(t, "_PLUS_", MangleIdent("+"))
	assert.Equal(t, "not_EQ_", MangleIdent("not="))
	assert.Equal(t, "even_QMARK_", MangleIdent("even?"))
	assert.Equal(t, "swap_BANG_", MangleIdent("swap!"))
	assert.Equal(t, "_class", MangleIdent("class"))
}

func TestEmitPrimitiveOp_ChainedComparison(t *testing.T) {
	e := &Emitter{}
	op := &ir.PrimitiveOp{Operator: "<", Operands: []ir.Expr{lit(1), lit(2), lit(3)}}
	got, err := e.emitExpr(op)
	assert.NoError(t, err)
	assert.Equal(t, "1L < 2L && 2L < 3L", (&csPrinter{}).exprStr(got))
}

func TestEmitPrimitiveOp_ArithmeticLeftFolds(t *testing.T) {
	e := &Emitter{}
	op := &ir.PrimitiveOp{Operator: "+", Operands: []ir.Expr{lit(1), lit(2), lit(3)}}
	got, err := e.emitExpr(op)
	assert.NoError(t, err)
	assert.Equal(t, "1L + 2L + 3L", (&csPrinter{}).exprStr(got))
}

func TestEmitIf_ExpressionContextIsTernary(t *testing.T) {
	e := &Emitter{}
	cmp := &ir.PrimitiveOp{Operator: "<", Operands: []ir.Expr{sym("x", true), lit(0)}}
	ifExpr := &ir.If{Test: cmp, Then: lit(1), Else: lit(2)}
	got, err := e.emitExpr(ifExpr)
	assert.NoError(t, err)
	assert.Contains(t, (&csPrinter{}).exprStr(got), "? (object)1L : (object)2L")
}

func TestEmitIf_ReturnContextIsBlock(t *testing.T) {
	e := &Emitter{}
	ifExpr := &ir.If{Test: sym("flag", true), Then: lit(1), Else: lit(2)}
	stmts, err := e.emitReturn(ifExpr)
	assert.NoError(t, err)
	assert.Len(t, stmts, 1)
	ifStmt, ok := stmts[0].(CsIfStmt)
	assert.True(t, ok)
	assert.Len(t, ifStmt.Body, 1)
	assert.Len(t, ifStmt.Else, 1)
}

func TestEmitLet_DiscardBinding(t *testing.T) {
	e := &Emitter{}
	let := &ir.Let{
		Bindings: []ir.Binding{{Name: "_", Init: lit(1)}},
		Body:     []ir.Expr{lit(2)},
	}
	stmts, err := e.emitReturn(let)
	assert.NoError(t, err)
	assert.IsType(t, CsExprStmt{}, stmts[0])
}

func TestEmitLoopRecur_CapturesIntoTemps(t *testing.T) {
	e := &Emitter{}
	loop := &ir.Loop{
		Bindings: []ir.Binding{{Name: "i", Init: lit(0)}, {Name: "acc", Init: lit(0)}},
		Body: []ir.Expr{
			&ir.If{
				Test: &ir.PrimitiveOp{Operator: "<", Operands: []ir.Expr{sym("i", true), lit(3)}},
				Then: &ir.Recur{Args: []ir.Expr{
					&ir.PrimitiveOp{Operator: "+", Operands: []ir.Expr{sym("i", true), lit(1)}},
					&ir.PrimitiveOp{Operator: "+", Operands: []ir.Expr{sym("acc", true), sym("i", true)}},
				}},
				Else: sym("acc", true),
			},
		},
	}
	stmts, err := e.emitReturn(loop)
	assert.NoError(t, err)
	f := &CsFile{ClassName: "Core", Namespace: "N", Decls: []CsDecl{
		CsMethodDecl{Static: true, ReturnType: "object", Name: "m", Body: stmts},
	}}
	got := PrintFile(f)
	assert.Contains(t, got, "while (true)")
	assert.Contains(t, got, "recur_tmp_")
	assert.Contains(t, got, "continue;")
}

func TestEmitQuote_SymbolAndList(t *testing.T) {
	e := &Emitter{}
	quoted := &form.List{Items: []form.Form{
		&form.Symbol{Name: "a"},
		form.Int(1),
	}}
	got, err := e.emitQuote(quoted)
	assert.NoError(t, err)
	s := (&csPrinter{}).exprStr(got)
	assert.Contains(t, s, "PersistentList.Create(")
	assert.Contains(t, s, `Symbol.Intern(null, "a")`)
	assert.Contains(t, s, "1L")
}

func TestEmitDef_Direct(t *testing.T) {
	e := &Emitter{Flavor: Direct}
	decls, err := e.emitDef(&ir.Def{Name: "answer", Init: lit(42)})
	assert.NoError(t, err)
	assert.Len(t, decls, 1)
	assert.IsType(t, CsFieldDecl{}, decls[0])
}

func TestEmitDef_VarIndirected(t *testing.T) {
	e := &Emitter{Flavor: VarIndirected}
	decls, err := e.emitDef(&ir.Def{Name: "answer", Init: lit(42)})
	assert.NoError(t, err)
	assert.Len(t, decls, 2)
	assert.IsType(t, CsFieldDecl{}, decls[0])
	assert.IsType(t, CsMethodDecl{}, decls[1])
}

func TestEmitNamedFn_MultiArityDispatchesOnLength(t *testing.T) {
	e := &Emitter{Flavor: Direct}
	fn := &ir.Fn{
		Name: "greet",
		Methods: []*ir.FnMethod{
			{FixedParams: nil, Body: []ir.Expr{lit(0)}},
			{FixedParams: []string{"name"}, Body: []ir.Expr{sym("name", true)}},
		},
	}
	decls, err := e.emitNamedFn(fn)
	assert.NoError(t, err)
	assert.Len(t, decls, 1)
	md, ok := decls[0].(CsMethodDecl)
	assert.True(t, ok)
	f := &CsFile{ClassName: "Core", Namespace: "N", Decls: []CsDecl{md}}
	got := PrintFile(f)
	assert.Contains(t, got, "switch (fnArgs.Length)")
	assert.Contains(t, got, "case 0:")
	assert.Contains(t, got, "case 1:")
	assert.Contains(t, got, "RtErrors.Arity")
}
