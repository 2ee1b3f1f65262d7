package emit

import "github.com/rubiojr/nettle/ir"

// emitTestHarness emits the deftest methods of a unit (spec §4.4 "Test
// harness"). In file-compilation mode each deftest becomes a
// test-framework-annotated void method. Any top-level non-def statements
// in the unit go into a public parameterless instance constructor, so they
// run each time the test framework creates an instance of the class, not
// once per run.
// In REPL mode each deftest body runs inside a try/catch that hands any
// exception to a thread-local result collector field (Results.Fail). `is`
// assertions compile to Assert calls in both modes, so the collector sees
// failures only; passing assertions are not counted.
func (e *Emitter) emitTestHarness(tests []*ir.Deftest, topStmts []ir.Expr) ([]CsDecl, error) {
	var decls []CsDecl

	if len(topStmts) > 0 {
		var body []CsStmt
		for _, ex := range topStmts {
			stmts, err := e.emitStmt(ex)
			if err != nil {
				return nil, err
			}
			body = append(body, stmts...)
		}
		decls = append(decls, CsCtorDecl{ClassName: e.curClass, Body: body})
	}

	if e.Mode == ReplMode {
		decls = append(decls, CsFieldDecl{
			Static: true, Type: "TestResultCollector", Name: "Results",
			Value: CsCallExpr{Func: "TestResultCollector.ThreadLocal"},
		})
	}

	for _, t := range tests {
		decl, err := e.emitOneDeftest(t)
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

func (e *Emitter) emitOneDeftest(t *ir.Deftest) (CsDecl, error) {
	e.pushScope()
	body, err := e.emitDoSeq(t.Body, ctxStatement)
	e.popScope()
	if err != nil {
		return nil, err
	}

	name := MangleIdent(t.Name)
	if e.Mode == FileMode {
		return CsMethodDecl{
			Attributes: []string{"[Fact]"},
			ReturnType: "void", Name: name, Body: body,
		}, nil
	}

	wrapped := []CsStmt{CsTryStmt{
		Body: body,
		Catches: []CsCatch{{
			ExType: "Exception", Binding: "ex",
			Body: []CsStmt{CsExprStmt{Expr: CsMethodCallExpr{
				Object: CsIdentExpr{Name: "Results"}, Method: "Fail",
				Args: []CsExpr{CsLit{Code: csEscapeString(t.Name)}, CsIdentExpr{Name: "ex"}},
			}}},
		}},
	}}
	return CsMethodDecl{ReturnType: "void", Name: name, Body: wrapped}, nil
}
