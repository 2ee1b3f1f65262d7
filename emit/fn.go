package emit

import (
	"fmt"

	"github.com/rubiojr/nettle/ir"
)

// emitFnMethodParams builds the C# parameter list for one arity, typing
// each fixed param from ParamTypes (falling back to object) and appending a
// trailing `object[]` for a variadic rest param (spec §4.3's fn analysis:
// "a `&` parameter denotes the variadic tail").
func emitFnMethodParams(m *ir.FnMethod) []CsParam {
	params := make([]CsParam, 0, len(m.FixedParams)+1)
	for i, name := range m.FixedParams {
		typ := "object"
		if i < len(m.ParamTypes) && m.ParamTypes[i] != "" {
			typ = m.ParamTypes[i]
		}
		params = append(params, CsParam{Name: MangleIdent(name), Type: typ})
	}
	if m.RestParam != "" {
		params = append(params, CsParam{Name: MangleIdent(m.RestParam), Type: "object[]"})
	}
	return params
}

func paramType(m *ir.FnMethod, i int) string {
	if i < len(m.ParamTypes) {
		return m.ParamTypes[i]
	}
	return ""
}

func (e *Emitter) emitFnMethodBody(m *ir.FnMethod) ([]CsStmt, error) {
	e.pushScope()
	defer e.popScope()
	for i, name := range m.FixedParams {
		e.declareLocal(name, paramType(m, i))
	}
	if m.RestParam != "" {
		e.declareLocal(m.RestParam, "")
	}
	return e.emitDoSeq(m.Body, ctxReturn)
}

// emitFnLiteral emits an anonymous (or locally bound) fn as a C# lambda
// expression (spec §4.4's Fn handling falls out of the Let/Invoke rules —
// a fn value is always a host delegate at the value level). Multi-arity
// fns compile to a single `object[]`-taking lambda that switches on
// argument count, the same dispatch shape the Var-indirected flavor uses
// for top-level multi-arity defns.
func (e *Emitter) emitFnLiteral(v *ir.Fn) (CsExpr, error) {
	if len(v.Methods) == 1 && !v.IsVariadic && v.Methods[0].RestParam == "" {
		m := v.Methods[0]
		body, err := e.emitFnMethodBody(m)
		if err != nil {
			return nil, err
		}
		return &CsStmtLambdaExpr{Params: emitFnMethodParams(m), Body: body}, nil
	}
	body, err := e.emitMultiArityDispatch(v)
	if err != nil {
		return nil, err
	}
	return &CsStmtLambdaExpr{Params: []CsParam{{Name: "fnArgs", Type: "object[]"}}, Body: body}, nil
}

// emitMultiArityDispatch builds the switch-on-argument-count body shared by
// fn literals and Var-indirected multi-arity defns (spec §4.4 "Var-
// indirected"): "a single dispatching lambda that switches on argument
// count; out-of-range arity throws with a message listing supported
// arities."
func (e *Emitter) emitMultiArityDispatch(v *ir.Fn) ([]CsStmt, error) {
	var cases []CsIntCase
	var arities []int
	for _, m := range v.Methods {
		e.pushScope()
		var caseBody []CsStmt
		for i, name := range m.FixedParams {
			typ := "object"
			if pt := paramType(m, i); pt != "" {
				typ = pt
			}
			e.declareLocal(name, paramType(m, i))
			caseBody = append(caseBody, CsLocalDecl{
				Type:  typ,
				Name:  MangleIdent(name),
				Value: CsIndexExpr{Array: CsIdentExpr{Name: "fnArgs"}, Index: CsLit{Code: fmt.Sprintf("%d", i)}},
			})
		}
		if m.RestParam != "" {
			caseBody = append(caseBody, CsLocalDecl{
				Type: "object[]",
				Name: MangleIdent(m.RestParam),
				Value: CsCallExpr{Func: "RtSeq.SliceFrom", Args: []CsExpr{
					CsIdentExpr{Name: "fnArgs"},
					CsLit{Code: fmt.Sprintf("%d", len(m.FixedParams))},
				}},
			})
			e.declareLocal(m.RestParam, "")
		}
		rest, err := e.emitDoSeq(m.Body, ctxReturn)
		e.popScope()
		if err != nil {
			return nil, err
		}
		caseBody = append(caseBody, rest...)
		arity := len(m.FixedParams)
		arities = append(arities, arity)
		cases = append(cases, CsIntCase{Value: arity, Body: caseBody})
	}

	return []CsStmt{CsSwitchIntStmt{
		Tag:   CsDotExpr{Object: CsIdentExpr{Name: "fnArgs"}, Field: "Length"},
		Cases: cases,
		Default: []CsStmt{CsThrowStmt{Value: CsCallExpr{Func: "RtErrors.Arity", Args: []CsExpr{
			CsLit{Code: csEscapeString(v.Name)},
			CsDotExpr{Object: CsIdentExpr{Name: "fnArgs"}, Field: "Length"},
			arityListLit(arities),
		}}}},
	}}, nil
}

func arityListLit(arities []int) CsExpr {
	elems := make([]CsExpr, len(arities))
	for i, a := range arities {
		elems[i] = CsLit{Code: fmt.Sprintf("%d", a)}
	}
	return CsArrayLit{ElemType: "int", Elems: elems}
}

// emitNamedFn emits a top-level (defn ...) form. Direct flavor compiles
// straight to a static method (single-arity) or a single static dispatcher
// method that takes object[] fnArgs and switches on its length
// (multi-arity). VarIndirected flavor wires a Var
// handle through bind_root and a typed public static wrapper that forwards
// to the Var's dispatching lambda (spec §4.4 "Two codegen flavors").
func (e *Emitter) emitNamedFn(v *ir.Fn) ([]CsDecl, error) {
	name := MangleIdent(v.Name)
	single := len(v.Methods) == 1 && !v.IsVariadic && v.Methods[0].RestParam == ""

	if e.Flavor == Direct {
		if single {
			m := v.Methods[0]
			body, err := e.emitFnMethodBody(m)
			if err != nil {
				return nil, err
			}
			return []CsDecl{CsMethodDecl{
				Static: true, ReturnType: "object", Name: name,
				Params: emitFnMethodParams(m), Body: body,
			}}, nil
		}
		body, err := e.emitMultiArityDispatch(v)
		if err != nil {
			return nil, err
		}
		return []CsDecl{CsMethodDecl{
			Static: true, ReturnType: "object", Name: name,
			Params: []CsParam{{Name: "fnArgs", Type: "object[]"}}, Body: body,
		}}, nil
	}

	// VarIndirected: bind a Var to the dispatching lambda in a static field
	// initializer, and emit a typed public wrapper that forwards to it
	// (spec §4.4 "Var-indirected": "a typed public wrapper, REPL-mode
	// indirection through Var.Find(ns,name).Invoke(...)").
	lambda, err := e.emitFnLiteral(v)
	if err != nil {
		return nil, err
	}
	varField := name + "Var"
	decls := []CsDecl{
		CsFieldDecl{
			Static: true, Type: "Var", Name: varField,
			Value: CsCallExpr{Func: "Var.BindRoot", Args: []CsExpr{
				e.nsArg(""), CsLit{Code: csEscapeString(v.Name)}, lambda,
			}},
		},
	}

	if single {
		m := v.Methods[0]
		params := emitFnMethodParams(m)
		args := make([]CsExpr, len(params))
		for i, p := range params {
			args[i] = CsIdentExpr{Name: p.Name}
		}
		call := CsMethodCallExpr{Object: CsIdentExpr{Name: varField}, Method: "Invoke", Args: args}
		decls = append(decls, CsMethodDecl{
			Static: true, ReturnType: "object", Name: name,
			Params: params, Body: []CsStmt{CsReturnStmt{Value: call}},
		})
		return decls, nil
	}

	call := CsMethodCallExpr{Object: CsIdentExpr{Name: varField}, Method: "Invoke", Args: []CsExpr{
		CsIdentExpr{Name: "fnArgs"},
	}}
	decls = append(decls, CsMethodDecl{
		Static: true, ReturnType: "object", Name: name,
		Params: []CsParam{{Name: "fnArgs", Type: "object[]"}},
		Body:   []CsStmt{CsReturnStmt{Value: call}},
	})
	return decls, nil
}
