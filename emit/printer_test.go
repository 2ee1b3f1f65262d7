package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintFile_Minimal(t *testing.T) {
	f := &CsFile{
		Usings:    []string{"System"},
		Namespace: "Nettle.Generated",
		ClassName: "Core",
		Decls: []CsDecl{
			CsFieldDecl{Static: true, Type: "object", Name: "x", Value: CsLit{Code: "1L"}},
		},
	}
	got := PrintFile(f)
	assert.Contains(t, got, "using System;\n")
	assert.Contains(t, got, "namespace Nettle.Generated\n")
	assert.Contains(t, got, "public class Core\n")
	assert.Contains(t, got, "public static object x = 1L;\n")
}

func TestPrintFile_MethodDecl(t *testing.T) {
	f := &CsFile{
		ClassName: "Core",
		Namespace: "Nettle.Generated",
		Decls: []CsDecl{
			CsMethodDecl{
				Static: true, ReturnType: "object", Name: "add",
				Params: []CsParam{{Name: "a", Type: "object"}, {Name: "b", Type: "object"}},
				Body: []CsStmt{
					CsReturnStmt{Value: CsBinaryExpr{Left: CsIdentExpr{Name: "a"}, Op: "+", Right: CsIdentExpr{Name: "b"}}},
				},
			},
		},
	}
	got := PrintFile(f)
	assert.Contains(t, got, "public static object add(object a, object b)\n")
	assert.Contains(t, got, "return a + b;\n")
}

func TestPrintFile_IfElse(t *testing.T) {
	f := &CsFile{
		ClassName: "Core",
		Namespace: "Nettle.Generated",
		Decls: []CsDecl{
			CsMethodDecl{Static: true, ReturnType: "void", Name: "m", Body: []CsStmt{
				CsIfStmt{
					Cond: CsBinaryExpr{Left: CsIdentExpr{Name: "x"}, Op: ">", Right: CsLit{Code: "0L"}},
					Body: []CsStmt{CsExprStmt{Expr: CsCallExpr{Func: "Console.WriteLine"}}},
					Else: []CsStmt{CsExprStmt{Expr: CsCallExpr{Func: "Console.WriteLine"}}},
				},
			}},
		},
	}
	got := PrintFile(f)
	assert.Contains(t, got, "if (x > 0L)\n")
	assert.Contains(t, got, "else\n")
}

func TestPrintFile_SwitchInt(t *testing.T) {
	f := &CsFile{
		ClassName: "Core",
		Namespace: "Nettle.Generated",
		Decls: []CsDecl{
			CsMethodDecl{Static: true, ReturnType: "object", Name: "dispatch", Params: []CsParam{{Name: "fnArgs", Type: "object[]"}}, Body: []CsStmt{
				CsSwitchIntStmt{
					Tag: CsDotExpr{Object: CsIdentExpr{Name: "fnArgs"}, Field: "Length"},
					Cases: []CsIntCase{
						{Value: 1, Body: []CsStmt{CsReturnStmt{Value: CsLit{Code: "1L"}}}},
					},
					Default: []CsStmt{CsThrowStmt{Value: CsCallExpr{Func: "RtErrors.Arity"}}},
				},
			}},
		},
	}
	got := PrintFile(f)
	assert.Contains(t, got, "switch (fnArgs.Length)\n")
	assert.Contains(t, got, "case 1:\n")
	assert.Contains(t, got, "default:\n")
	assert.Contains(t, got, "throw RtErrors.Arity();\n")
}

// Node constructors are used both as values and as pointers across the
// emitter's codegen files; the printer must normalize either shape before
// dispatching on concrete type.
func TestPrintFile_PointerAndValueNodesEquivalent(t *testing.T) {
	valueFile := &CsFile{
		ClassName: "Core", Namespace: "Nettle.Generated",
		Decls: []CsDecl{CsFieldDecl{Static: true, Type: "object", Name: "x", Value: CsLit{Code: "1L"}}},
	}
	pointerFile := &CsFile{
		ClassName: "Core", Namespace: "Nettle.Generated",
		Decls: []CsDecl{CsFieldDecl{Static: true, Type: "object", Name: "x", Value: &CsLit{Code: "1L"}}},
	}
	assert.Equal(t, PrintFile(valueFile), PrintFile(pointerFile))
}

func TestPrintFile_TryCatchFinally(t *testing.T) {
	f := &CsFile{
		ClassName: "Core", Namespace: "Nettle.Generated",
		Decls: []CsDecl{
			CsMethodDecl{Static: true, ReturnType: "void", Name: "m", Body: []CsStmt{
				CsTryStmt{
					Body:    []CsStmt{CsExprStmt{Expr: CsCallExpr{Func: "Risky"}}},
					Catches: []CsCatch{{ExType: "Exception", Binding: "ex", Body: []CsStmt{CsThrowStmt{Value: CsIdentExpr{Name: "ex"}}}}},
					Finally: []CsStmt{CsExprStmt{Expr: CsCallExpr{Func: "Cleanup"}}},
				},
			}},
		},
	}
	got := PrintFile(f)
	assert.Contains(t, got, "try\n")
	assert.Contains(t, got, "catch (Exception ex)\n")
	assert.Contains(t, got, "finally\n")
}
