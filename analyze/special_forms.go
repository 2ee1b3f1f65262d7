package analyze

import (
	"strings"

	"github.com/rubiojr/nettle/form"
	"github.com/rubiojr/nettle/internal/errs"
	"github.com/rubiojr/nettle/ir"
	"github.com/rubiojr/nettle/macro"
	"github.com/rubiojr/nettle/ns"
)

type specialFormFn func(a *Analyzer, lst *form.List, ctx *Context) (ir.Expr, error)

// specialForms dispatches by unqualified head symbol (spec §4.3). Special
// form dispatch always wins over macro expansion and ordinary invocation.
var specialForms = map[string]specialFormFn{
	"def":               (*Analyzer).analyzeDef,
	"defn":               (*Analyzer).analyzeDefn,
	"defn-":              (*Analyzer).analyzeDefnPrivate,
	"fn":                 (*Analyzer).analyzeFn,
	"fn*":                (*Analyzer).analyzeFn,
	"let":                (*Analyzer).analyzeLet,
	"loop":               (*Analyzer).analyzeLoop,
	"do":                 (*Analyzer).analyzeDo,
	"if":                 (*Analyzer).analyzeIf,
	"quote":              (*Analyzer).analyzeQuote,
	"new":                (*Analyzer).analyzeNew,
	"set!":               (*Analyzer).analyzeSet,
	"throw":              (*Analyzer).analyzeThrow,
	"try":                (*Analyzer).analyzeTry,
	"recur":              (*Analyzer).analyzeRecur,
	"await":              (*Analyzer).analyzeAwait,
	"ns":                 (*Analyzer).analyzeNs,
	"in-ns":              (*Analyzer).analyzeInNs,
	"require":            (*Analyzer).analyzeRequire,
	"defprotocol":        (*Analyzer).analyzeDefprotocol,
	"deftype":            (*Analyzer).analyzeDeftype,
	"defrecord":          (*Analyzer).analyzeDefrecord,
	"deftest":            (*Analyzer).analyzeDeftest,
	"is":                 (*Analyzer).analyzeIs,
	"instance?":          (*Analyzer).analyzeInstanceCheck,
	"defmacro":           (*Analyzer).analyzeDefmacro,
	"macroexpand":        (*Analyzer).analyzeMacroexpand,
	"macroexpand-1":      (*Analyzer).analyzeMacroexpand1,
	"syntax-quote":       (*Analyzer).analyzeSyntaxQuote,
}

func argError(lst *form.List, msg string) error {
	return &errs.AnalyzerError{Msg: msg, Form: form.GoString(lst)}
}

func (a *Analyzer) analyzeDef(lst *form.List, ctx *Context) (ir.Expr, error) {
	return a.analyzeDefImpl(lst, ctx, false)
}

func (a *Analyzer) analyzeDefImpl(lst *form.List, ctx *Context, isPrivate bool) (ir.Expr, error) {
	if len(lst.Items) < 2 {
		return nil, argError(lst, "def requires at least a name")
	}
	sym, ok := lst.Items[1].(*form.Symbol)
	if !ok {
		return nil, argError(lst, "def name must be a symbol")
	}

	rest := lst.Items[2:]
	var docstring string
	if len(rest) > 0 {
		if s, ok := rest[0].(form.String); ok && len(rest) > 1 {
			docstring = string(s)
			rest = rest[1:]
		}
	}

	var init ir.Expr
	var err error
	if len(rest) > 0 {
		init, err = a.Analyze(rest[0], ctx)
		if err != nil {
			return nil, err
		}
	}

	typeHint, _, _ := extractTag(sym)
	d := &ir.Def{Name: sym.Name, Init: init, Docstring: docstring, TypeHint: typeHint, IsPrivate: isPrivate}
	a.NS.DefineVar(sym.Name, ns.VarInfo{IsPublic: !isPrivate, Type: typeHint})
	return d, nil
}

func (a *Analyzer) analyzeDefn(lst *form.List, ctx *Context) (ir.Expr, error) {
	return a.analyzeDefnImpl(lst, ctx, false)
}

func (a *Analyzer) analyzeDefnPrivate(lst *form.List, ctx *Context) (ir.Expr, error) {
	return a.analyzeDefnImpl(lst, ctx, true)
}

// analyzeDefnImpl desugars (defn name [params] body) / (defn name
// ([p1] b1) ([p2] b2)) into a Def whose init is a named Fn.
func (a *Analyzer) analyzeDefnImpl(lst *form.List, ctx *Context, isPrivate bool) (ir.Expr, error) {
	if len(lst.Items) < 3 {
		return nil, argError(lst, "defn requires a name and at least one arity")
	}
	sym, ok := lst.Items[1].(*form.Symbol)
	if !ok {
		return nil, argError(lst, "defn name must be a symbol")
	}

	b := form.NewBuilder()
	fnForm := b.List(append([]form.Form{b.Sym("fn"), sym}, lst.Items[2:]...)...)
	fnExpr, err := a.analyzeFnNamed(fnForm, ctx, sym.Name)
	if err != nil {
		return nil, err
	}

	typeHint, _, _ := extractTag(sym)
	a.NS.DefineVar(sym.Name, ns.VarInfo{IsPublic: !isPrivate, Type: typeHint})
	return &ir.Def{Name: sym.Name, Init: fnExpr, TypeHint: typeHint, IsPrivate: isPrivate}, nil
}

func (a *Analyzer) analyzeFn(lst *form.List, ctx *Context) (ir.Expr, error) {
	return a.analyzeFnNamed(lst, ctx, "")
}

// analyzeFnNamed handles both (fn [params] body) single-arity and
// (fn name? ([p1] b1) ([p2] b2)) multi-arity shapes (spec §4.3).
func (a *Analyzer) analyzeFnNamed(lst *form.List, ctx *Context, name string) (ir.Expr, error) {
	rest := lst.Items[1:]
	if name == "" {
		if sym, ok := rest[0].(*form.Symbol); ok {
			name = sym.Name
			rest = rest[1:]
		}
	} else if sym, ok := rest[0].(*form.Symbol); ok && sym.Name == name {
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return nil, argError(lst, "fn requires at least one arity")
	}

	var methodForms [][]form.Form // each: [paramsVec, body...]
	if _, isVec := rest[0].(*form.Vector); isVec {
		methodForms = [][]form.Form{rest}
	} else {
		for _, mf := range rest {
			mlst, ok := mf.(*form.List)
			if !ok || len(mlst.Items) == 0 {
				return nil, argError(lst, "fn multi-arity entry must be a list")
			}
			methodForms = append(methodForms, mlst.Items)
		}
	}

	methods := make([]*ir.FnMethod, 0, len(methodForms))
	variadicCount := 0
	for _, mf := range methodForms {
		paramsVec, ok := mf[0].(*form.Vector)
		if !ok {
			return nil, argError(lst, "fn parameter list must be a vector")
		}
		method, err := a.analyzeFnMethod(paramsVec, mf[1:], ctx)
		if err != nil {
			return nil, err
		}
		if method.RestParam != "" {
			variadicCount++
		}
		methods = append(methods, method)
	}

	return &ir.Fn{Name: name, Methods: methods, IsVariadic: variadicCount > 0}, nil
}

func (a *Analyzer) analyzeFnMethod(paramsVec *form.Vector, body []form.Form, ctx *Context) (*ir.FnMethod, error) {
	var fixed []string
	var paramTypes []string
	var rest string
	methodCtx := ctx
	i := 0
	for i < len(paramsVec.Items) {
		sym, ok := paramsVec.Items[i].(*form.Symbol)
		if !ok {
			return nil, &errs.AnalyzerError{Msg: "fn parameter must be a symbol", Form: form.GoString(paramsVec)}
		}
		if sym.Name == "&" {
			i++
			if i >= len(paramsVec.Items) {
				return nil, &errs.AnalyzerError{Msg: "& must be followed by a rest parameter", Form: form.GoString(paramsVec)}
			}
			restSym := paramsVec.Items[i].(*form.Symbol)
			rest = restSym.Name
			typeName, _, _ := extractTag(restSym)
			methodCtx = methodCtx.WithLocalType(rest, typeName)
			i++
			continue
		}
		typeName, _, _ := extractTag(sym)
		fixed = append(fixed, sym.Name)
		paramTypes = append(paramTypes, typeName)
		methodCtx = methodCtx.WithLocalType(sym.Name, typeName)
		i++
	}

	bodyExpr, err := a.analyzeBody(body, methodCtx)
	if err != nil {
		return nil, err
	}
	bodyExprs := flattenDo(bodyExpr)
	return &ir.FnMethod{FixedParams: fixed, RestParam: rest, Body: bodyExprs, ParamTypes: paramTypes}, nil
}

func flattenDo(e ir.Expr) []ir.Expr {
	if do, ok := e.(*ir.Do); ok {
		return do.Exprs
	}
	return []ir.Expr{e}
}

func (a *Analyzer) analyzeLet(lst *form.List, ctx *Context) (ir.Expr, error) {
	bindings, body, bodyCtx, err := a.analyzeBindings(lst, ctx)
	if err != nil {
		return nil, err
	}
	bodyExpr, err := a.analyzeBody(body, bodyCtx)
	if err != nil {
		return nil, err
	}
	return &ir.Let{Bindings: bindings, Body: flattenDo(bodyExpr)}, nil
}

func (a *Analyzer) analyzeLoop(lst *form.List, ctx *Context) (ir.Expr, error) {
	bindings, body, bodyCtx, err := a.analyzeBindings(lst, ctx)
	if err != nil {
		return nil, err
	}
	bodyExpr, err := a.analyzeBody(body, bodyCtx)
	if err != nil {
		return nil, err
	}
	return &ir.Loop{Bindings: bindings, Body: flattenDo(bodyExpr)}, nil
}

// analyzeBindings parses and sequentially analyzes a let/loop bindings
// vector: it must have an even length, and each init is analyzed under a
// scope that already contains the earlier binding names (spec §4.3).
func (a *Analyzer) analyzeBindings(lst *form.List, ctx *Context) ([]ir.Binding, []form.Form, *Context, error) {
	if len(lst.Items) < 2 {
		return nil, nil, nil, argError(lst, "let/loop requires a bindings vector")
	}
	vec, ok := lst.Items[1].(*form.Vector)
	if !ok {
		return nil, nil, nil, argError(lst, "let/loop bindings must be a vector")
	}
	if len(vec.Items)%2 != 0 {
		return nil, nil, nil, argError(lst, "let/loop bindings vector must have an even number of forms")
	}

	cur := ctx
	var bindings []ir.Binding
	for i := 0; i < len(vec.Items); i += 2 {
		sym, ok := vec.Items[i].(*form.Symbol)
		if !ok {
			return nil, nil, nil, argError(lst, "let/loop binding name must be a symbol")
		}
		init, err := a.Analyze(vec.Items[i+1], cur)
		if err != nil {
			return nil, nil, nil, err
		}
		typeName, _, _ := extractTag(sym)
		if typeName == "" {
			typeName = inferredLiteralType(init)
		}
		cur = cur.WithLocalType(sym.Name, typeName)
		bindings = append(bindings, ir.Binding{Name: sym.Name, Init: init})
	}
	return bindings, lst.Items[2:], cur, nil
}

// inferredLiteralType gives an untyped let binding the type of its literal
// init expression, so later arithmetic on it can still be specialized
// (spec §4.3 primitive-op specializer, "Local symbol -> looked up in
// ctx.local_types").
func inferredLiteralType(init ir.Expr) string {
	if lit, ok := init.(*ir.Literal); ok {
		return literalNumericType(lit)
	}
	if cast, ok := init.(*ir.Cast); ok {
		return cast.TypeName
	}
	return ""
}

func (a *Analyzer) analyzeDo(lst *form.List, ctx *Context) (ir.Expr, error) {
	return a.analyzeBody(lst.Items[1:], ctx)
}

func (a *Analyzer) analyzeIf(lst *form.List, ctx *Context) (ir.Expr, error) {
	if len(lst.Items) < 3 || len(lst.Items) > 4 {
		return nil, argError(lst, "if takes a test, then, and optional else")
	}
	test, err := a.Analyze(lst.Items[1], ctx)
	if err != nil {
		return nil, err
	}
	then, err := a.Analyze(lst.Items[2], ctx)
	if err != nil {
		return nil, err
	}
	var elseExpr ir.Expr
	if len(lst.Items) == 4 {
		elseExpr, err = a.Analyze(lst.Items[3], ctx)
		if err != nil {
			return nil, err
		}
	}
	return &ir.If{Test: test, Then: then, Else: elseExpr}, nil
}

func (a *Analyzer) analyzeQuote(lst *form.List, ctx *Context) (ir.Expr, error) {
	if len(lst.Items) != 2 {
		return nil, argError(lst, "quote takes exactly one form")
	}
	return &ir.Quote{Quoted: lst.Items[1]}, nil
}

func (a *Analyzer) analyzeSyntaxQuote(lst *form.List, ctx *Context) (ir.Expr, error) {
	if len(lst.Items) != 2 {
		return nil, argError(lst, "syntax-quote takes exactly one form")
	}
	return &ir.Quote{Quoted: macro.SyntaxQuote(lst.Items[1])}, nil
}

func (a *Analyzer) analyzeNew(lst *form.List, ctx *Context) (ir.Expr, error) {
	if len(lst.Items) < 2 {
		return nil, argError(lst, "new requires a type")
	}
	sym, ok := lst.Items[1].(*form.Symbol)
	if !ok {
		return nil, argError(lst, "new target must be a symbol")
	}
	args, err := a.analyzeAll(lst.Items[2:], ctx)
	if err != nil {
		return nil, err
	}
	return &ir.New{TypeName: sym.String(), Args: args}, nil
}

func (a *Analyzer) analyzeSet(lst *form.List, ctx *Context) (ir.Expr, error) {
	if len(lst.Items) != 3 {
		return nil, argError(lst, "set! takes a target and a value")
	}
	target, err := a.Analyze(lst.Items[1], ctx)
	if err != nil {
		return nil, err
	}
	value, err := a.Analyze(lst.Items[2], ctx)
	if err != nil {
		return nil, err
	}
	return &ir.Assign{Target: target, Value: value}, nil
}

func (a *Analyzer) analyzeThrow(lst *form.List, ctx *Context) (ir.Expr, error) {
	if len(lst.Items) != 2 {
		return nil, argError(lst, "throw takes exactly one expression")
	}
	exc, err := a.Analyze(lst.Items[1], ctx)
	if err != nil {
		return nil, err
	}
	return &ir.Throw{Exception: exc}, nil
}

// analyzeTry partitions sub-forms into the body, zero or more
// (catch Type binding body...) clauses, and at most one (finally body...)
// (spec §4.3).
func (a *Analyzer) analyzeTry(lst *form.List, ctx *Context) (ir.Expr, error) {
	var bodyForms []form.Form
	var catches []ir.CatchClause
	var finallyForms []form.Form

	for _, sub := range lst.Items[1:] {
		subLst, isList := sub.(*form.List)
		if isList {
			if head, ok := form.HeadSymbol(subLst); ok && head == "catch" {
				if len(subLst.Items) < 3 {
					return nil, argError(lst, "catch requires a type and a binding")
				}
				exTypeSym, ok := subLst.Items[1].(*form.Symbol)
				if !ok {
					return nil, argError(lst, "catch type must be a symbol")
				}
				bindSym, ok := subLst.Items[2].(*form.Symbol)
				if !ok {
					return nil, argError(lst, "catch binding must be a symbol")
				}
				catchCtx := ctx.WithLocalType(bindSym.Name, exTypeSym.String())
				body, err := a.analyzeBody(subLst.Items[3:], catchCtx)
				if err != nil {
					return nil, err
				}
				catches = append(catches, ir.CatchClause{ExType: exTypeSym.String(), Binding: bindSym.Name, Body: flattenDo(body)})
				continue
			}
			if head, ok := form.HeadSymbol(subLst); ok && head == "finally" {
				finallyForms = subLst.Items[1:]
				continue
			}
		}
		if len(catches) > 0 || len(finallyForms) > 0 {
			return nil, argError(lst, "try body must precede catch/finally clauses")
		}
		bodyForms = append(bodyForms, sub)
	}

	body, err := a.analyzeBody(bodyForms, ctx)
	if err != nil {
		return nil, err
	}
	t := &ir.Try{Body: flattenDo(body), Catches: catches}
	if finallyForms != nil {
		finallyExpr, err := a.analyzeBody(finallyForms, ctx)
		if err != nil {
			return nil, err
		}
		t.Finally = flattenDo(finallyExpr)
	}
	return t, nil
}

func (a *Analyzer) analyzeRecur(lst *form.List, ctx *Context) (ir.Expr, error) {
	args, err := a.analyzeAll(lst.Items[1:], ctx)
	if err != nil {
		return nil, err
	}
	return &ir.Recur{Args: args}, nil
}

func (a *Analyzer) analyzeAwait(lst *form.List, ctx *Context) (ir.Expr, error) {
	if len(lst.Items) != 2 {
		return nil, argError(lst, "await takes exactly one expression")
	}
	task, err := a.Analyze(lst.Items[1], ctx.WithAsync(true))
	if err != nil {
		return nil, err
	}
	return &ir.Await{Task: task}, nil
}

func (a *Analyzer) analyzeNs(lst *form.List, ctx *Context) (ir.Expr, error) {
	if len(lst.Items) < 2 {
		return nil, argError(lst, "ns requires a name")
	}
	sym, ok := lst.Items[1].(*form.Symbol)
	if !ok {
		return nil, argError(lst, "ns name must be a symbol")
	}
	a.NS.SwitchTo(sym.String())
	a.processNsClauses(lst.Items[2:])
	return &ir.Ns{Name: sym.String()}, nil
}

func (a *Analyzer) analyzeInNs(lst *form.List, ctx *Context) (ir.Expr, error) {
	if len(lst.Items) != 2 {
		return nil, argError(lst, "in-ns requires exactly one namespace")
	}
	name, err := a.nsNameArg(lst.Items[1])
	if err != nil {
		return nil, err
	}
	a.NS.SwitchTo(name)
	return &ir.InNs{Name: name}, nil
}

// nsNameArg extracts a namespace name from either a bare symbol or a
// (quote sym) form, the two shapes in-ns commonly appears with.
func (a *Analyzer) nsNameArg(f form.Form) (string, error) {
	switch v := f.(type) {
	case *form.Symbol:
		return v.String(), nil
	case *form.List:
		if len(v.Items) == 2 {
			if sym, ok := v.Items[1].(*form.Symbol); ok {
				return sym.String(), nil
			}
		}
	}
	return "", &errs.AnalyzerError{Msg: "expected a namespace name", Form: form.GoString(f)}
}

// processNsClauses handles the (:require [ns :as alias] ...) and
// (:import Type ...) sub-clauses of an ns form.
func (a *Analyzer) processNsClauses(clauses []form.Form) {
	for _, c := range clauses {
		lst, ok := c.(*form.List)
		if !ok || len(lst.Items) == 0 {
			continue
		}
		kw, ok := lst.Items[0].(*form.Keyword)
		if !ok {
			continue
		}
		switch kw.Name {
		case "require":
			for _, spec := range lst.Items[1:] {
				a.processRequireSpec(spec)
			}
		case "import":
			for _, t := range lst.Items[1:] {
				if sym, ok := t.(*form.Symbol); ok {
					a.NS.Import(sym.String())
				}
			}
		}
	}
}

func (a *Analyzer) processRequireSpec(spec form.Form) {
	switch v := spec.(type) {
	case *form.Symbol:
		a.NS.Require(v.String())
	case *form.Vector:
		if len(v.Items) == 0 {
			return
		}
		nsSym, ok := v.Items[0].(*form.Symbol)
		if !ok {
			return
		}
		a.NS.Require(nsSym.String())
		for i := 1; i+1 < len(v.Items); i += 2 {
			kw, ok := v.Items[i].(*form.Keyword)
			if !ok {
				continue
			}
			switch kw.Name {
			case "as":
				if alias, ok := v.Items[i+1].(*form.Symbol); ok {
					a.NS.AddAlias(alias.Name, nsSym.String())
				}
			case "refer":
				if referVec, ok := v.Items[i+1].(*form.Vector); ok {
					for _, r := range referVec.Items {
						if sym, ok := r.(*form.Symbol); ok {
							a.NS.AddRefer(sym.Name, nsSym.String())
						}
					}
				}
			}
		}
	}
}

func (a *Analyzer) analyzeRequire(lst *form.List, ctx *Context) (ir.Expr, error) {
	for _, spec := range lst.Items[1:] {
		a.processRequireSpec(spec)
	}
	var path string
	if len(lst.Items) > 1 {
		if sym, ok := lst.Items[1].(*form.Symbol); ok {
			path = sym.String()
		} else if vec, ok := lst.Items[1].(*form.Vector); ok && len(vec.Items) > 0 {
			if sym, ok := vec.Items[0].(*form.Symbol); ok {
				path = sym.String()
			}
		}
	}
	return &ir.Require{Path: path}, nil
}

func (a *Analyzer) analyzeDefmacro(lst *form.List, ctx *Context) (ir.Expr, error) {
	if len(lst.Items) < 3 {
		return nil, argError(lst, "defmacro requires a name and parameter vector")
	}
	sym, ok := lst.Items[1].(*form.Symbol)
	if !ok {
		return nil, argError(lst, "defmacro name must be a symbol")
	}
	paramsVec, ok := lst.Items[2].(*form.Vector)
	if !ok {
		return nil, argError(lst, "defmacro parameter list must be a vector")
	}
	bodyForms := lst.Items[3:]

	paramNames := make([]string, 0, len(paramsVec.Items))
	restIdx := -1
	for i, p := range paramsVec.Items {
		psym, ok := p.(*form.Symbol)
		if !ok {
			continue
		}
		if psym.Name == "&" {
			restIdx = i
			continue
		}
		paramNames = append(paramNames, psym.Name)
	}

	fixedCount := len(paramNames)
	if restIdx >= 0 {
		fixedCount--
	}

	a.Macros.Register(sym.Name, func(call *form.List) (form.Form, error) {
		args := call.Items[1:]
		binder := form.NewBuilder()
		bindings := make([]form.Form, 0, len(paramNames)*2)
		for i := 0; i < fixedCount; i++ {
			var arg form.Form = form.NilForm
			if i < len(args) {
				arg = args[i]
			}
			bindings = append(bindings, binder.Sym(paramNames[i]), arg)
		}
		if restIdx >= 0 {
			restName := paramNames[fixedCount]
			var rest form.Form = binder.List()
			if fixedCount < len(args) {
				rest = binder.List(args[fixedCount:]...)
			}
			bindings = append(bindings, binder.Sym(restName), rest)
		}
		letForm := binder.List(append([]form.Form{binder.Sym("let"), binder.Vector(bindings...)}, bodyForms...)...)
		return letForm, nil
	})
	return &ir.Def{Name: sym.Name}, nil
}

func (a *Analyzer) analyzeMacroexpand(lst *form.List, ctx *Context) (ir.Expr, error) {
	if len(lst.Items) != 2 {
		return nil, argError(lst, "macroexpand takes exactly one form")
	}
	expanded, err := a.Macros.Macroexpand(lst.Items[1])
	if err != nil {
		return nil, err
	}
	return &ir.Quote{Quoted: expanded}, nil
}

func (a *Analyzer) analyzeMacroexpand1(lst *form.List, ctx *Context) (ir.Expr, error) {
	if len(lst.Items) != 2 {
		return nil, argError(lst, "macroexpand-1 takes exactly one form")
	}
	expanded, err := a.Macros.MacroexpandOnce(lst.Items[1])
	if err != nil {
		return nil, err
	}
	return &ir.Quote{Quoted: expanded}, nil
}

func (a *Analyzer) analyzeDefprotocol(lst *form.List, ctx *Context) (ir.Expr, error) {
	if len(lst.Items) < 2 {
		return nil, argError(lst, "defprotocol requires a name")
	}
	sym, ok := lst.Items[1].(*form.Symbol)
	if !ok {
		return nil, argError(lst, "defprotocol name must be a symbol")
	}
	var methods []ir.ProtoMethod
	for _, m := range lst.Items[2:] {
		mlst, ok := m.(*form.List)
		if !ok || len(mlst.Items) < 2 {
			continue
		}
		nameSym, ok := mlst.Items[0].(*form.Symbol)
		if !ok {
			continue
		}
		paramsVec, ok := mlst.Items[1].(*form.Vector)
		if !ok {
			continue
		}
		returnType, _, _ := extractTag(nameSym)
		var params, paramTypes []string
		for _, p := range paramsVec.Items {
			if psym, ok := p.(*form.Symbol); ok {
				if psym.Name == "this" {
					continue
				}
				ptype, _, _ := extractTag(psym)
				params = append(params, psym.Name)
				paramTypes = append(paramTypes, ptype)
			}
		}
		methods = append(methods, ir.ProtoMethod{Name: nameSym.Name, Params: params, ParamTypes: paramTypes, ReturnType: returnType})
	}
	return &ir.Defprotocol{Name: sym.Name, Methods: methods}, nil
}

func (a *Analyzer) analyzeDeftype(lst *form.List, ctx *Context) (ir.Expr, error) {
	return a.analyzeTypeForm(lst, ctx, false)
}

func (a *Analyzer) analyzeDefrecord(lst *form.List, ctx *Context) (ir.Expr, error) {
	return a.analyzeTypeForm(lst, ctx, true)
}

// analyzeTypeForm implements the shared shape of deftype/defrecord: a name,
// a field vector, then zero or more interface-name symbols and method
// bodies interleaved (spec §4.4).
func (a *Analyzer) analyzeTypeForm(lst *form.List, ctx *Context, asRecord bool) (ir.Expr, error) {
	if len(lst.Items) < 3 {
		return nil, argError(lst, "deftype/defrecord requires a name and field vector")
	}
	sym, ok := lst.Items[1].(*form.Symbol)
	if !ok {
		return nil, argError(lst, "deftype/defrecord name must be a symbol")
	}
	fieldsVec, ok := lst.Items[2].(*form.Vector)
	if !ok {
		return nil, argError(lst, "deftype/defrecord field list must be a vector")
	}

	var fields []ir.FieldSpec
	for _, f := range fieldsVec.Items {
		fsym, ok := f.(*form.Symbol)
		if !ok {
			continue
		}
		typeName, _, _ := extractTag(fsym)
		attr := false
		if meta := fsym.Meta; meta != nil {
			attr = meta.Attr() != nil
		}
		fields = append(fields, ir.FieldSpec{Name: fsym.Name, Type: typeName, HasAttr: attr})
	}

	var extends []string
	if meta := sym.Meta; meta != nil {
		if ext := meta.Extends(); ext != nil {
			for _, e := range ext.Items {
				if esym, ok := e.(*form.Symbol); ok {
					extends = append(extends, esym.String())
				}
			}
		}
	}

	var interfaces []string
	var methods []*ir.Fn
	for _, rest := range lst.Items[3:] {
		if isym, ok := rest.(*form.Symbol); ok {
			interfaces = append(interfaces, isym.String())
			continue
		}
		mlst, ok := rest.(*form.List)
		if !ok || len(mlst.Items) < 2 {
			continue
		}
		nameSym, ok := mlst.Items[0].(*form.Symbol)
		if !ok {
			continue
		}
		paramsVec, ok := mlst.Items[1].(*form.Vector)
		if !ok {
			continue
		}
		method, err := a.analyzeFnMethod(paramsVec, mlst.Items[2:], ctx)
		if err != nil {
			return nil, err
		}
		methods = append(methods, &ir.Fn{Name: nameSym.Name, Methods: []*ir.FnMethod{method}})
	}

	if asRecord {
		return &ir.Defrecord{Name: sym.Name, Fields: fields, Interfaces: interfaces, Extends: extends, Methods: methods}, nil
	}
	return &ir.Deftype{Name: sym.Name, Fields: fields, Interfaces: interfaces, Extends: extends, Methods: methods}, nil
}

func (a *Analyzer) analyzeDeftest(lst *form.List, ctx *Context) (ir.Expr, error) {
	if len(lst.Items) < 2 {
		return nil, argError(lst, "deftest requires a name")
	}
	sym, ok := lst.Items[1].(*form.Symbol)
	if !ok {
		return nil, argError(lst, "deftest name must be a symbol")
	}
	body, err := a.analyzeBody(lst.Items[2:], ctx)
	if err != nil {
		return nil, err
	}
	return &ir.Deftest{Name: sym.Name, Body: flattenDo(body)}, nil
}

func (a *Analyzer) analyzeIs(lst *form.List, ctx *Context) (ir.Expr, error) {
	if len(lst.Items) != 2 {
		return nil, argError(lst, "is takes exactly one assertion")
	}
	assertion, err := a.Analyze(lst.Items[1], ctx)
	if err != nil {
		return nil, err
	}
	return &ir.Is{Assertion: assertion}, nil
}

func (a *Analyzer) analyzeInstanceCheck(lst *form.List, ctx *Context) (ir.Expr, error) {
	if len(lst.Items) != 3 {
		return nil, argError(lst, "instance? takes a type and a target")
	}
	sym, ok := lst.Items[1].(*form.Symbol)
	if !ok {
		return nil, argError(lst, "instance? type must be a symbol")
	}
	target, err := a.Analyze(lst.Items[2], ctx)
	if err != nil {
		return nil, err
	}
	return &ir.InstanceCheck{TypeName: sym.String(), Target: target}, nil
}

// isRawHostEscape reports whether name is a recognized raw-host embedding
// form, e.g. "csharp*" (spec §4.4's interop escape, named for the host
// language this dialect targets). The bare "*" multiplication operator and
// "fn*" are excluded so arithmetic and low-level fn forms are never
// mistaken for a raw-host escape.
func isRawHostEscape(name string) bool {
	return len(name) > 1 && strings.HasSuffix(name, "*") && name != "fn*"
}

// analyzeRawHost handles (csharp* "template with ~{name} placeholders"
// name1 expr1 name2 expr2 ...): the template string is emitted verbatim
// except for each ~{name} occurrence, substituted with the emission of the
// paired expr (spec §4.4's escape hatch for host constructs the dialect has
// no surface syntax for).
func (a *Analyzer) analyzeRawHost(lst *form.List, ctx *Context) (ir.Expr, error) {
	if len(lst.Items) < 2 {
		return nil, argError(lst, "raw host escape requires a template string")
	}
	tmpl, ok := lst.Items[1].(form.String)
	if !ok {
		return nil, argError(lst, "raw host escape template must be a string")
	}

	rest := lst.Items[2:]
	if len(rest)%2 != 0 {
		return nil, argError(lst, "raw host escape placeholders must be name/expr pairs")
	}

	var interps []ir.Interp
	for i := 0; i < len(rest); i += 2 {
		nameSym, ok := rest[i].(*form.Symbol)
		if !ok {
			return nil, argError(lst, "raw host escape placeholder name must be a symbol")
		}
		exprIR, err := a.Analyze(rest[i+1], ctx)
		if err != nil {
			return nil, err
		}
		interps = append(interps, ir.Interp{Placeholder: nameSym.Name, Expr: exprIR})
	}

	return &ir.RawHost{Template: string(tmpl), Interps: interps}, nil
}
