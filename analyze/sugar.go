package analyze

import (
	"github.com/rubiojr/nettle/form"
	"github.com/rubiojr/nettle/internal/errs"
	"github.com/rubiojr/nettle/ir"
	"github.com/rubiojr/nettle/macro"
)

// trySugar rewrites a recognized sugar form into its desugared equivalent
// form and re-analyzes that, returning (expr, true, err). It returns
// (nil, false, nil) when name names no sugar form, so the caller falls
// through to ordinary interop/invocation handling (spec §4.3).
func (a *Analyzer) trySugar(name string, lst *form.List, ctx *Context) (ir.Expr, bool, error) {
	b := form.NewBuilder()
	args := lst.Items[1:]

	switch name {
	case "when":
		if len(args) < 1 {
			return nil, true, argError(lst, "when requires a test")
		}
		body := b.List(append([]form.Form{b.Sym("do")}, args[1:]...)...)
		expr, err := a.Analyze(b.List(b.Sym("if"), args[0], body), ctx)
		return expr, true, err

	case "when-not":
		if len(args) < 1 {
			return nil, true, argError(lst, "when-not requires a test")
		}
		body := b.List(append([]form.Form{b.Sym("do")}, args[1:]...)...)
		expr, err := a.Analyze(b.List(b.Sym("if"), args[0], b.Nil(), body), ctx)
		return expr, true, err

	case "when-let":
		expr, err := a.desugarWhenLet(b, lst, args, ctx)
		return expr, true, err

	case "if-let":
		expr, err := a.desugarIfLet(b, lst, args, ctx)
		return expr, true, err

	case "if-not":
		if len(args) < 2 || len(args) > 3 {
			return nil, true, argError(lst, "if-not takes a test, then, and optional else")
		}
		rewritten := []form.Form{b.Sym("if"), args[0]}
		if len(args) == 3 {
			rewritten = append(rewritten, args[2], args[1])
		} else {
			rewritten = append(rewritten, b.Nil(), args[1])
		}
		expr, err := a.Analyze(b.List(rewritten...), ctx)
		return expr, true, err

	case "cond":
		expr, err := a.desugarCond(b, args, ctx)
		return expr, true, err

	case "and":
		expr, err := a.desugarAnd(b, args, ctx)
		return expr, true, err

	case "or":
		expr, err := a.desugarOr(b, args, ctx)
		return expr, true, err

	case "not":
		if len(args) != 1 {
			return nil, true, argError(lst, "not takes exactly one form")
		}
		expr, err := a.Analyze(b.List(b.Sym("if"), args[0], b.Bool(false), b.Bool(true)), ctx)
		return expr, true, err

	case "dotimes":
		expr, err := a.desugarDotimes(b, lst, args, ctx)
		return expr, true, err

	case "->":
		expr, err := a.desugarThread(b, args, true, ctx)
		return expr, true, err

	case "->>":
		expr, err := a.desugarThread(b, args, false, ctx)
		return expr, true, err

	case "doto":
		expr, err := a.desugarDoto(b, lst, args, ctx)
		return expr, true, err

	case "comment":
		return &ir.Literal{Value: form.NilForm}, true, nil
	}

	return nil, false, nil
}

// desugarWhenLet implements (when-let [name init] body...) => (let [name
// init] (if name (do body...) nil)).
func (a *Analyzer) desugarWhenLet(b *form.Builder, lst *form.List, args []form.Form, ctx *Context) (ir.Expr, error) {
	if len(args) < 1 {
		return nil, argError(lst, "when-let requires a binding vector")
	}
	bindVec, ok := args[0].(*form.Vector)
	if !ok || len(bindVec.Items) != 2 {
		return nil, argError(lst, "when-let binding vector must hold exactly one name/init pair")
	}
	name := bindVec.Items[0]
	body := b.List(append([]form.Form{b.Sym("do")}, args[1:]...)...)
	ifForm := b.List(b.Sym("if"), name, body, b.Nil())
	return a.Analyze(b.List(b.Sym("let"), bindVec, ifForm), ctx)
}

// desugarIfLet implements (if-let [name init] then else?) => (let [name
// init] (if name then else)).
func (a *Analyzer) desugarIfLet(b *form.Builder, lst *form.List, args []form.Form, ctx *Context) (ir.Expr, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, argError(lst, "if-let takes a binding vector, then, and optional else")
	}
	bindVec, ok := args[0].(*form.Vector)
	if !ok || len(bindVec.Items) != 2 {
		return nil, argError(lst, "if-let binding vector must hold exactly one name/init pair")
	}
	name := bindVec.Items[0]
	ifArgs := []form.Form{b.Sym("if"), name, args[1]}
	if len(args) == 3 {
		ifArgs = append(ifArgs, args[2])
	}
	return a.Analyze(b.List(b.Sym("let"), bindVec, b.List(ifArgs...)), ctx)
}

// desugarCond rewrites (cond t1 e1 t2 e2 ... [:else eN]) into nested ifs; a
// bare keyword :else test (or any other value) is handled uniformly since
// its truthiness evaluates the same as any other test.
func (a *Analyzer) desugarCond(b *form.Builder, args []form.Form, ctx *Context) (ir.Expr, error) {
	if len(args) == 0 {
		return &ir.Literal{Value: form.NilForm}, nil
	}
	if len(args)%2 != 0 {
		return nil, &errs.AnalyzerError{Msg: "cond clauses must come in test/expr pairs"}
	}
	test, result := args[0], args[1]
	elseExpr, err := a.desugarCond(b, args[2:], ctx)
	if err != nil {
		return nil, err
	}
	testIR, err := a.Analyze(test, ctx)
	if err != nil {
		return nil, err
	}
	thenIR, err := a.Analyze(result, ctx)
	if err != nil {
		return nil, err
	}
	return &ir.If{Test: testIR, Then: thenIR, Else: elseExpr}, nil
}

// desugarAnd implements short-circuiting and: (and) -> true, (and x) -> x,
// otherwise an internal fresh-name let around the first operand avoids
// double evaluation, then recurs over the rest (spec §4.3).
func (a *Analyzer) desugarAnd(b *form.Builder, args []form.Form, ctx *Context) (ir.Expr, error) {
	if len(args) == 0 {
		return a.Analyze(b.Bool(true), ctx)
	}
	if len(args) == 1 {
		return a.Analyze(args[0], ctx)
	}
	tmp := b.Sym(macro.Gensym("and"))
	rest := b.List(append([]form.Form{b.Sym("and")}, args[1:]...)...)
	ifForm := b.List(b.Sym("if"), tmp, rest, tmp)
	letForm := b.List(b.Sym("let"), b.Vector(tmp, args[0]), ifForm)
	return a.Analyze(letForm, ctx)
}

// desugarOr mirrors desugarAnd: (or) -> nil, (or x) -> x, otherwise a
// fresh-name let around the first operand, returned directly if truthy,
// else recur over the rest.
func (a *Analyzer) desugarOr(b *form.Builder, args []form.Form, ctx *Context) (ir.Expr, error) {
	if len(args) == 0 {
		return a.Analyze(b.Nil(), ctx)
	}
	if len(args) == 1 {
		return a.Analyze(args[0], ctx)
	}
	tmp := b.Sym(macro.Gensym("or"))
	rest := b.List(append([]form.Form{b.Sym("or")}, args[1:]...)...)
	ifForm := b.List(b.Sym("if"), tmp, tmp, rest)
	letForm := b.List(b.Sym("let"), b.Vector(tmp, args[0]), ifForm)
	return a.Analyze(letForm, ctx)
}

// desugarDotimes implements (dotimes [i n] body...) as a let-wrapped
// loop/recur with a counter bound below the limit (spec §4.3).
func (a *Analyzer) desugarDotimes(b *form.Builder, lst *form.List, args []form.Form, ctx *Context) (ir.Expr, error) {
	if len(args) < 1 {
		return nil, argError(lst, "dotimes requires a binding vector")
	}
	bindVec, ok := args[0].(*form.Vector)
	if !ok || len(bindVec.Items) != 2 {
		return nil, argError(lst, "dotimes binding vector must hold exactly one counter/limit pair")
	}
	counter := bindVec.Items[0]
	limit := bindVec.Items[1]
	limitName := b.Sym(macro.Gensym("dotimes_limit"))

	body := append([]form.Form{}, args[1:]...)
	recurForm := b.List(b.Sym("recur"), b.List(b.Sym("inc"), counter))
	loopBody := b.List(append([]form.Form{b.Sym("when"), b.List(b.Sym("<"), counter, limitName)},
		append(body, recurForm)...)...)

	loopForm := b.List(b.Sym("loop"), b.Vector(counter, b.Int(0)), loopBody)
	letForm := b.List(b.Sym("let"), b.Vector(limitName, limit), loopForm)
	return a.Analyze(letForm, ctx)
}

// desugarThread iteratively rewrites `->`/`->>` steps: thread-first pushes
// the running value as the second element of each step's list, thread-last
// appends it; a bare symbol step is treated as a one-element call list
// (spec §4.3).
func (a *Analyzer) desugarThread(b *form.Builder, args []form.Form, first bool, ctx *Context) (ir.Expr, error) {
	if len(args) == 0 {
		return &ir.Literal{Value: form.NilForm}, nil
	}
	cur := args[0]
	for _, step := range args[1:] {
		stepList, ok := step.(*form.List)
		if !ok {
			stepList = b.List(step)
		}
		var rewritten []form.Form
		if first {
			rewritten = append(rewritten, stepList.Items[0], cur)
			rewritten = append(rewritten, stepList.Items[1:]...)
		} else {
			rewritten = append(rewritten, stepList.Items...)
			rewritten = append(rewritten, cur)
		}
		cur = b.List(rewritten...)
	}
	return a.Analyze(cur, ctx)
}

// desugarDoto captures the target into a fresh local, threads it as the
// first argument into each body step (ignoring each step's own result),
// and yields the local (spec §4.3).
func (a *Analyzer) desugarDoto(b *form.Builder, lst *form.List, args []form.Form, ctx *Context) (ir.Expr, error) {
	if len(args) < 1 {
		return nil, argError(lst, "doto requires a target expression")
	}
	tmp := b.Sym(macro.Gensym("doto"))
	bodyForms := make([]form.Form, 0, len(args))
	for _, step := range args[1:] {
		stepList, ok := step.(*form.List)
		if !ok {
			stepList = b.List(step)
		}
		rewritten := append([]form.Form{stepList.Items[0], tmp}, stepList.Items[1:]...)
		bodyForms = append(bodyForms, b.List(rewritten...))
	}
	bodyForms = append(bodyForms, tmp)
	letForm := b.List(append([]form.Form{b.Sym("let"), b.Vector(tmp, args[0])}, bodyForms...)...)
	return a.Analyze(letForm, ctx)
}
