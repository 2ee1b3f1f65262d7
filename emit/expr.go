package emit

import (
	"fmt"
	"strings"

	"github.com/rubiojr/nettle/form"
	"github.com/rubiojr/nettle/ir"
)

// emitStmt emits ex under Statement context (spec §4.4): a side effect,
// its result (if any) discarded.
func (e *Emitter) emitStmt(ex ir.Expr) ([]CsStmt, error) {
	return e.emitUnder(ex, ctxStatement)
}

// emitReturn emits ex under Return context: ex sits in tail position of the
// enclosing function body and must emit a return statement.
func (e *Emitter) emitReturn(ex ir.Expr) ([]CsStmt, error) {
	return e.emitUnder(ex, ctxReturn)
}

// emitExpr emits ex under Expression context: it must yield a value in
// place, with no statement terminator.
func (e *Emitter) emitExpr(ex ir.Expr) (CsExpr, error) {
	stmts, csExpr, err := e.emitNode(ex, ctxExpression)
	if err != nil {
		return nil, err
	}
	if csExpr == nil {
		// A compound node (Let/Loop/Do/Try) needed statement-shaped
		// emission even in Expression context; wrap it in an IIFE so the
		// surrounding expression still sees a single value (spec §4.4
		// "Let" — "in Expression context, wraps the block in an
		// immediately-invoked lambda"). The statements already carry their
		// own terminal `return` (emitted under Return context), so the
		// IIFE's body is the statement list verbatim, with no separate
		// Result expression.
		return &CsIIFEExpr{ReturnType: "object", Body: stmts}, nil
	}
	return csExpr, nil
}

func (e *Emitter) emitUnder(ex ir.Expr, ctx ctxKind) ([]CsStmt, error) {
	switch v := ex.(type) {
	case *ir.If:
		return e.emitIf(v, ctx)
	case *ir.Let:
		return e.emitLet(v, ctx)
	case *ir.Loop:
		return e.emitLoop(v, ctx)
	case *ir.Do:
		return e.emitDoSeq(v.Exprs, ctx)
	case *ir.Try:
		return e.emitTry(v, ctx)
	case *ir.Recur:
		return e.emitRecur(v)
	case *ir.Throw:
		val, err := e.emitExpr(v.Exception)
		if err != nil {
			return nil, err
		}
		return []CsStmt{CsThrowStmt{Value: val}}, nil
	case *ir.Assign:
		stmt, err := e.emitAssignStmt(v)
		if err != nil {
			return nil, err
		}
		return []CsStmt{stmt}, nil
	default:
		csExpr, err := e.emitSimpleExpr(ex)
		if err != nil {
			return nil, err
		}
		if ctx == ctxReturn && mightReturnVoid(ex) {
			// The tail expression may compile to a void host call; emit it
			// as a statement and return nil rather than `return voidCall()`
			// (spec §4.4 "Let": heuristic on instance/static method, raw
			// host, or an is-assertion in tail position).
			return []CsStmt{CsExprStmt{Expr: csExpr}, CsReturnStmt{Value: CsNullExpr{}}}, nil
		}
		return wrapTerminal(csExpr, ctx), nil
	}
}

// mightReturnVoid is the structural heuristic spec §4.4 describes for
// Let's expression-context IIFE: instance/static method calls, raw host
// embeds, and is-assertions may all compile to a void host call.
func mightReturnVoid(ex ir.Expr) bool {
	switch ex.(type) {
	case *ir.InstanceMethod, *ir.StaticMethod, *ir.RawHost, *ir.Is:
		return true
	default:
		return false
	}
}

// emitNode is like emitUnder, but for leaf/simple nodes under Expression
// context it returns the CsExpr directly instead of a one-statement slice,
// so emitExpr can avoid an unnecessary IIFE wrap for the common case.
func (e *Emitter) emitNode(ex ir.Expr, ctx ctxKind) ([]CsStmt, CsExpr, error) {
	switch ex.(type) {
	case *ir.If:
		// If keeps ctx all the way through: in Expression context emitIf
		// itself produces a ternary CsExpr directly (spec §4.4 "If"),
		// unlike Let/Loop/Do/Try which always need block-statement shape
		// and so get promoted to Return context and IIFE-wrapped instead.
		stmts, err := e.emitUnder(ex, ctx)
		if err != nil {
			return nil, nil, err
		}
		if ctx == ctxExpression && len(stmts) == 1 {
			if es, ok := stmts[0].(CsExprStmt); ok {
				return nil, es.Expr, nil
			}
		}
		return stmts, nil, nil
	case *ir.Let, *ir.Loop, *ir.Do, *ir.Try:
		if ctx == ctxExpression {
			stmts, err := e.emitUnder(ex, ctxReturn)
			if err != nil {
				return nil, nil, err
			}
			return stmts, nil, nil
		}
		stmts, err := e.emitUnder(ex, ctx)
		return stmts, nil, err
	default:
		if ctx != ctxExpression {
			stmts, err := e.emitUnder(ex, ctx)
			return stmts, nil, err
		}
		csExpr, err := e.emitSimpleExpr(ex)
		return nil, csExpr, err
	}
}

func wrapTerminal(csExpr CsExpr, ctx ctxKind) []CsStmt {
	switch ctx {
	case ctxReturn:
		return []CsStmt{CsReturnStmt{Value: csExpr}}
	default:
		return []CsStmt{CsExprStmt{Expr: csExpr}}
	}
}

// emitDoSeq implicit-do-emits a sequence of body expressions: everything but
// the last runs in Statement context, the last takes on ctx.
func (e *Emitter) emitDoSeq(exprs []ir.Expr, ctx ctxKind) ([]CsStmt, error) {
	if len(exprs) == 0 {
		if ctx == ctxReturn {
			return []CsStmt{CsReturnStmt{Value: CsNullExpr{}}}, nil
		}
		return nil, nil
	}
	var out []CsStmt
	for _, b := range exprs[:len(exprs)-1] {
		stmts, err := e.emitStmt(b)
		if err != nil {
			return nil, err
		}
		out = append(out, stmts...)
	}
	last, err := e.emitUnder(exprs[len(exprs)-1], ctx)
	if err != nil {
		return nil, err
	}
	return append(out, last...), nil
}

// emitSimpleExpr handles every IR node that always produces a single
// expression regardless of context.
func (e *Emitter) emitSimpleExpr(ex ir.Expr) (CsExpr, error) {
	switch v := ex.(type) {
	case *ir.Literal:
		return e.emitLiteral(v.Value)
	case *ir.SymbolRef:
		return e.emitSymbolRef(v)
	case *ir.KeywordRef:
		return e.emitKeywordRef(v)
	case *ir.VectorLit:
		return e.emitCollectionLit("PersistentVector", v.Elems)
	case *ir.SetLit:
		return e.emitCollectionLit("PersistentHashSet", v.Elems)
	case *ir.MapLit:
		return e.emitMapLit(v)
	case *ir.Invoke:
		return e.emitInvoke(v)
	case *ir.InstanceMethod:
		return e.emitInstanceMethod(v)
	case *ir.StaticMethod:
		return e.emitStaticMethod(v)
	case *ir.InstanceProperty:
		return e.emitInstanceProperty(v)
	case *ir.StaticProperty:
		return &CsIdentExpr{Name: v.TypeName + "." + v.Name}, nil
	case *ir.New:
		return e.emitNew(v)
	case *ir.Cast:
		return e.emitCast(v)
	case *ir.Quote:
		return e.emitQuote(v.Quoted)
	case *ir.PrimitiveOp:
		return e.emitPrimitiveOp(v)
	case *ir.RawHost:
		return e.emitRawHost(v)
	case *ir.InstanceCheck:
		target, err := e.emitExpr(v.Target)
		if err != nil {
			return nil, err
		}
		return &CsBinaryExpr{Left: target, Op: "is", Right: CsIdentExpr{Name: v.TypeName}}, nil
	case *ir.Await:
		task, err := e.emitExpr(v.Task)
		if err != nil {
			return nil, err
		}
		return &CsRawExpr{Code: "await " + e.exprText(task)}, nil
	case *ir.Fn:
		return e.emitFnLiteral(v)
	case *ir.Is:
		return e.emitIsAssertion(v)
	default:
		return nil, emitErrorf(fmt.Sprintf("%T", ex), "unreachable IR node in expression context")
	}
}

func (e *Emitter) exprText(x CsExpr) string {
	p := &csPrinter{}
	return p.exprStr(x)
}

func (e *Emitter) emitLiteral(v form.Form) (CsExpr, error) {
	switch val := v.(type) {
	case form.Bool:
		if val {
			return &CsLit{Code: "true"}, nil
		}
		return &CsLit{Code: "false"}, nil
	case form.Int:
		return &CsLit{Code: fmt.Sprintf("%dL", int64(val))}, nil
	case form.Float:
		return &CsLit{Code: fmt.Sprintf("%gd", float64(val))}, nil
	case form.Decimal:
		return &CsLit{Code: string(val)}, nil
	case form.Char:
		return &CsLit{Code: fmt.Sprintf("'%c'", rune(val))}, nil
	case form.String:
		return &CsLit{Code: csEscapeString(string(val))}, nil
	default:
		if v == form.NilForm || v == nil {
			return CsNullExpr{}, nil
		}
		return nil, emitErrorf("Literal", "unrecognized literal kind")
	}
}

func csEscapeString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func (e *Emitter) emitSymbolRef(v *ir.SymbolRef) (CsExpr, error) {
	if v.IsLocal {
		return &CsIdentExpr{Name: MangleIdent(v.Symbol.Name)}, nil
	}
	name := MangleIdent(v.Symbol.Name)
	if e.Flavor == VarIndirected {
		return &CsMethodCallExpr{
			Object: CsCallExpr{Func: "Var.Find", Args: []CsExpr{e.nsArg(v.Symbol.NS), CsLit{Code: csEscapeString(v.Symbol.Name)}}},
			Method: "Deref",
		}, nil
	}
	return &CsIdentExpr{Name: name}, nil
}

func (e *Emitter) nsArg(ns string) CsExpr {
	if ns == "" {
		ns = e.currentNS()
	}
	return CsLit{Code: csEscapeString(ns)}
}

func (e *Emitter) currentNS() string {
	return e.curNS
}

func (e *Emitter) emitKeywordRef(v *ir.KeywordRef) (CsExpr, error) {
	nsArg := CsExpr(CsNullExpr{})
	if v.Keyword.NS != "" {
		nsArg = CsLit{Code: csEscapeString(v.Keyword.NS)}
	}
	return &CsCallExpr{Func: "Keyword.Intern", Args: []CsExpr{nsArg, CsLit{Code: csEscapeString(v.Keyword.Name)}}}, nil
}

func (e *Emitter) emitCollectionLit(factory string, elems []ir.Expr) (CsExpr, error) {
	args := make([]CsExpr, len(elems))
	for i, el := range elems {
		ce, err := e.emitExpr(el)
		if err != nil {
			return nil, err
		}
		args[i] = ce
	}
	return &CsCallExpr{Func: factory + ".Create", Args: args}, nil
}

func (e *Emitter) emitMapLit(v *ir.MapLit) (CsExpr, error) {
	var args []CsExpr
	for _, kv := range v.Pairs {
		k, err := e.emitExpr(kv.Key)
		if err != nil {
			return nil, err
		}
		val, err := e.emitExpr(kv.Value)
		if err != nil {
			return nil, err
		}
		args = append(args, k, val)
	}
	return &CsCallExpr{Func: "PersistentHashMap.Create", Args: args}, nil
}

// emitIf emits an If under ctx: Expression context lowers to a ternary with
// both branches cast to object to defeat C#'s type inference (spec §4.4);
// Statement/Return context lowers to a block if/else, propagating ctx into
// both branches.
func (e *Emitter) emitIf(v *ir.If, ctx ctxKind) ([]CsStmt, error) {
	if ctx == ctxExpression {
		thenE, err := e.emitExpr(v.Then)
		if err != nil {
			return nil, err
		}
		var elseE CsExpr = CsNullExpr{}
		if v.Else != nil {
			elseE, err = e.emitExpr(v.Else)
			if err != nil {
				return nil, err
			}
		}
		cond, err := e.emitTruthy(v.Test)
		if err != nil {
			return nil, err
		}
		ternary := CsTernaryExpr{
			Cond: cond,
			Then: CsCastExpr{Type: "object", Value: thenE},
			Else: CsCastExpr{Type: "object", Value: elseE},
		}
		return wrapTerminal(&ternary, ctxExpression), nil
	}

	cond, err := e.emitTruthy(v.Test)
	if err != nil {
		return nil, err
	}
	thenStmts, err := e.emitUnder(v.Then, ctx)
	if err != nil {
		return nil, err
	}
	var elseStmts []CsStmt
	if v.Else != nil {
		elseStmts, err = e.emitUnder(v.Else, ctx)
		if err != nil {
			return nil, err
		}
	} else if ctx == ctxReturn {
		elseStmts = []CsStmt{CsReturnStmt{Value: CsNullExpr{}}}
	}
	return []CsStmt{CsIfStmt{Cond: cond, Body: thenStmts, Else: elseStmts}}, nil
}

// emitTruthy wraps test's emitted expression with the runtime truthiness
// helper (spec §4.5: is_truthy(x) ≡ x != nil && x != false), unless test is
// itself a PrimitiveOp comparison, which is already a C# bool.
func (e *Emitter) emitTruthy(test ir.Expr) (CsExpr, error) {
	if pop, ok := test.(*ir.PrimitiveOp); ok && isComparisonOp(pop.Operator) {
		return e.emitExpr(test)
	}
	v, err := e.emitExpr(test)
	if err != nil {
		return nil, err
	}
	return &CsCallExpr{Func: "RtBool.IsTruthy", Args: []CsExpr{v}}, nil
}

func isComparisonOp(op string) bool {
	switch op {
	case "<", ">", "<=", ">=", "==":
		return true
	}
	return false
}

// emitLet emits sequential locals then the body, wired for ctx (spec §4.4
// "Let"). A binding named "_" is emitted as a discard statement.
func (e *Emitter) emitLet(v *ir.Let, ctx ctxKind) ([]CsStmt, error) {
	e.pushScope()
	defer e.popScope()

	var out []CsStmt
	for _, b := range v.Bindings {
		init, err := e.emitExpr(b.Init)
		if err != nil {
			return nil, err
		}
		if isVoidishName(b.Name) {
			out = append(out, CsExprStmt{Expr: init})
			continue
		}
		localType := ir.Type(b.Init)
		e.declareLocal(b.Name, localType)
		out = append(out, CsLocalDecl{Type: cshortType(localType), Name: MangleIdent(b.Name), Value: init})
	}
	bodyStmts, err := e.emitDoSeq(v.Body, ctx)
	if err != nil {
		return nil, err
	}
	return append(out, bodyStmts...), nil
}

// emitLoop lowers Loop/Recur to a while(true) with mutable locals shadowing
// the bindings (spec §4.4 "Loop/Recur"). The result-producing path assigns a
// fresh result variable and breaks; the caller (ctx) decides what happens to
// that result.
func (e *Emitter) emitLoop(v *ir.Loop, ctx ctxKind) ([]CsStmt, error) {
	e.pushScope()
	defer e.popScope()

	var names []string
	var out []CsStmt
	for _, b := range v.Bindings {
		init, err := e.emitExpr(b.Init)
		if err != nil {
			return nil, err
		}
		localType := ir.Type(b.Init)
		e.declareLocal(b.Name, localType)
		mangled := MangleIdent(b.Name)
		names = append(names, mangled)
		out = append(out, CsLocalDecl{Type: cshortType(localType), Name: mangled, Value: init})
	}

	resultVar := e.freshTemp("loop_result")
	out = append(out, CsLocalDecl{Type: "object", Name: resultVar})

	e.loopStack = append(e.loopStack, loopFrame{bindingNames: names, resultVar: resultVar})
	bodyStmts, err := e.emitDoSeqLoopBody(v.Body)
	e.loopStack = e.loopStack[:len(e.loopStack)-1]
	if err != nil {
		return nil, err
	}

	out = append(out, CsWhileTrueStmt{Body: bodyStmts})

	switch ctx {
	case ctxReturn:
		out = append(out, CsReturnStmt{Value: CsIdentExpr{Name: resultVar}})
	case ctxExpression:
		out = append(out, CsExprStmt{Expr: CsIdentExpr{Name: resultVar}})
	}
	return out, nil
}

// emitDoSeqLoopBody is like emitDoSeq but the tail expression is emitted via
// emitLoopTail, which distinguishes a recur-continue from a terminal
// result+break (spec's "structural contains_recur walk").
func (e *Emitter) emitDoSeqLoopBody(exprs []ir.Expr) ([]CsStmt, error) {
	if len(exprs) == 0 {
		return []CsStmt{CsBreakStmt{}}, nil
	}
	var out []CsStmt
	for _, b := range exprs[:len(exprs)-1] {
		stmts, err := e.emitStmt(b)
		if err != nil {
			return nil, err
		}
		out = append(out, stmts...)
	}
	tail, err := e.emitLoopTail(exprs[len(exprs)-1])
	if err != nil {
		return nil, err
	}
	return append(out, tail...), nil
}

// emitLoopTail emits the tail position of a loop body: a bare Recur
// continues, an If routes each branch back through emitLoopTail (so a
// mixed recur/terminal If works), everything else assigns the result
// variable and breaks.
func (e *Emitter) emitLoopTail(ex ir.Expr) ([]CsStmt, error) {
	switch v := ex.(type) {
	case *ir.Recur:
		return e.emitRecur(v)
	case *ir.If:
		cond, err := e.emitTruthy(v.Test)
		if err != nil {
			return nil, err
		}
		thenStmts, err := e.emitLoopTail(v.Then)
		if err != nil {
			return nil, err
		}
		var elseStmts []CsStmt
		if v.Else != nil {
			elseStmts, err = e.emitLoopTail(v.Else)
			if err != nil {
				return nil, err
			}
		} else {
			elseStmts = e.assignResultAndBreak(CsNullExpr{})
		}
		return []CsStmt{CsIfStmt{Cond: cond, Body: thenStmts, Else: elseStmts}}, nil
	case *ir.Do:
		return e.emitDoSeqLoopBody(v.Exprs)
	default:
		val, err := e.emitExpr(ex)
		if err != nil {
			return nil, err
		}
		return e.assignResultAndBreak(val), nil
	}
}

func (e *Emitter) assignResultAndBreak(val CsExpr) []CsStmt {
	frame := e.loopStack[len(e.loopStack)-1]
	return []CsStmt{
		CsAssignStmt{Target: frame.resultVar, Value: val},
		CsBreakStmt{},
	}
}

// emitRecur captures recur's arguments into fresh temporaries before
// assigning them to the loop locals, so a self-referencing update (e.g.
// `(recur (inc i) (+ acc i))` where acc reads the pre-update i) is coherent,
// then continues (spec §4.4 "Loop/Recur").
func (e *Emitter) emitRecur(v *ir.Recur) ([]CsStmt, error) {
	if len(e.loopStack) == 0 {
		return nil, emitErrorf("Recur", "recur outside a loop/fn tail position")
	}
	frame := e.loopStack[len(e.loopStack)-1]
	if len(v.Args) != len(frame.bindingNames) {
		return nil, emitErrorf("Recur", "recur arity does not match the enclosing loop's binding count")
	}

	var out []CsStmt
	temps := make([]string, len(v.Args))
	for i, a := range v.Args {
		val, err := e.emitExpr(a)
		if err != nil {
			return nil, err
		}
		tmp := e.freshTemp("recur_tmp")
		temps[i] = tmp
		out = append(out, CsLocalDecl{Name: tmp, Value: val})
	}
	for i, name := range frame.bindingNames {
		out = append(out, CsAssignStmt{Target: name, Value: CsIdentExpr{Name: temps[i]}})
	}
	out = append(out, CsContinueStmt{})
	return out, nil
}

// emitTry lowers to a host try/catch/finally, propagating ctx into the body
// and every catch clause; finally always runs in Statement context since C#
// doesn't let a finally block contribute a value (spec §4.4's E5).
func (e *Emitter) emitTry(v *ir.Try, ctx ctxKind) ([]CsStmt, error) {
	body, err := e.emitDoSeq(v.Body, ctx)
	if err != nil {
		return nil, err
	}
	var catches []CsCatch
	for _, c := range v.Catches {
		e.pushScope()
		if c.Binding != "" {
			e.declareLocal(c.Binding, c.ExType)
		}
		catchBody, err := e.emitDoSeq(c.Body, ctx)
		e.popScope()
		if err != nil {
			return nil, err
		}
		catches = append(catches, CsCatch{ExType: c.ExType, Binding: MangleIdent(c.Binding), Body: catchBody})
	}
	var finallyStmts []CsStmt
	if v.Finally != nil {
		finallyStmts, err = e.emitDoSeq(v.Finally, ctxStatement)
		if err != nil {
			return nil, err
		}
	}
	return []CsStmt{CsTryStmt{Body: body, Catches: catches, Finally: finallyStmts}}, nil
}

func (e *Emitter) emitAssignStmt(v *ir.Assign) (CsStmt, error) {
	target, ok := v.Target.(*ir.SymbolRef)
	if !ok {
		return nil, emitErrorf("Assign", "set! target must be a symbol")
	}
	val, err := e.emitExpr(v.Value)
	if err != nil {
		return nil, err
	}
	return CsAssignStmt{Target: MangleIdent(target.Symbol.Name), Value: val}, nil
}

func (e *Emitter) emitCast(v *ir.Cast) (CsExpr, error) {
	inner, err := e.emitExpr(v.Inner)
	if err != nil {
		return nil, err
	}
	return &CsCastExpr{Type: v.TypeName, Value: inner, IsNum: isNumericHostType(v.TypeName)}, nil
}

func isNumericHostType(t string) bool {
	switch t {
	case "int", "long", "float", "double", "decimal", "byte", "short":
		return true
	}
	return false
}

func (e *Emitter) emitNew(v *ir.New) (CsExpr, error) {
	args, err := e.emitAll(v.Args)
	if err != nil {
		return nil, err
	}
	return &CsNewExpr{Type: v.TypeName, Args: args}, nil
}

func (e *Emitter) emitAll(exprs []ir.Expr) ([]CsExpr, error) {
	out := make([]CsExpr, len(exprs))
	for i, ex := range exprs {
		ce, err := e.emitExpr(ex)
		if err != nil {
			return nil, err
		}
		out[i] = ce
	}
	return out, nil
}

// emitPrimitiveOp builds a direct host arithmetic/comparison expression
// (spec §4.4/§4.3 E3: "emission contains no runtime arithmetic helper
// call"). Comparisons with more than two operands chain pairwise with &&
// (a<b<c ≡ a<b && b<c, spec §4.5); arithmetic left-folds.
func (e *Emitter) emitPrimitiveOp(v *ir.PrimitiveOp) (CsExpr, error) {
	operands, err := e.emitAll(v.Operands)
	if err != nil {
		return nil, err
	}
	if isComparisonOp(v.Operator) && len(operands) > 2 {
		var clauses CsExpr
		for i := 0; i < len(operands)-1; i++ {
			pair := CsBinaryExpr{Left: operands[i], Op: v.Operator, Right: operands[i+1]}
			if clauses == nil {
				clauses = &pair
			} else {
				clauses = &CsBinaryExpr{Left: clauses, Op: "&&", Right: &pair}
			}
		}
		return clauses, nil
	}
	acc := operands[0]
	for _, next := range operands[1:] {
		acc = &CsBinaryExpr{Left: acc, Op: v.Operator, Right: next}
	}
	return acc, nil
}

func (e *Emitter) emitIsAssertion(v *ir.Is) (CsExpr, error) {
	if pop, ok := v.Assertion.(*ir.PrimitiveOp); ok && pop.Operator == "==" && len(pop.Operands) == 2 {
		expected, err := e.emitExpr(pop.Operands[0])
		if err != nil {
			return nil, err
		}
		actual, err := e.emitExpr(pop.Operands[1])
		if err != nil {
			return nil, err
		}
		return &CsCallExpr{Func: "Assert.Equal", Args: []CsExpr{expected, actual}}, nil
	}
	cond, err := e.emitTruthy(v.Assertion)
	if err != nil {
		return nil, err
	}
	return &CsCallExpr{Func: "Assert.True", Args: []CsExpr{cond}}, nil
}
