package emit

import "github.com/rubiojr/nettle/ir"

// emitDef emits a top-level (def ...) form (spec §4.4 "Two codegen
// flavors"). Direct flavor compiles it to a plain static field initialized
// in place. VarIndirected flavor binds a Var handle via bind_root and
// exposes a typed public static accessor method that derefs it, so a later
// redefinition (hot reload) is visible to every call site without
// recompiling them.
func (e *Emitter) emitDef(v *ir.Def) ([]CsDecl, error) {
	name := MangleIdent(v.Name)
	typ := cshortType(v.TypeHint)

	var init CsExpr
	if v.Init != nil {
		var err error
		init, err = e.emitExpr(v.Init)
		if err != nil {
			return nil, err
		}
	} else {
		init = CsNullExpr{}
	}

	if e.Flavor == Direct {
		return []CsDecl{CsFieldDecl{Static: true, Type: typ, Name: name, Value: init}}, nil
	}

	varField := name + "Var"
	var deref CsExpr = CsMethodCallExpr{Object: CsIdentExpr{Name: varField}, Method: "Deref"}
	if typ != "object" {
		deref = CsCastExpr{Type: typ, Value: deref, IsNum: isNumericHostType(typ)}
	}
	decls := []CsDecl{
		CsFieldDecl{
			Static: true, Type: "Var", Name: varField,
			Value: CsCallExpr{Func: "Var.BindRoot", Args: []CsExpr{
				e.nsArg(""), CsLit{Code: csEscapeString(v.Name)}, init,
			}},
		},
		CsMethodDecl{Static: true, ReturnType: typ, Name: name, Body: []CsStmt{CsReturnStmt{Value: deref}}},
	}
	return decls, nil
}
