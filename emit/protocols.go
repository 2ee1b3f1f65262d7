package emit

import "github.com/rubiojr/nettle/ir"

// emitDefprotocol emits a host interface with one method per protocol
// method (spec §4.4 "Protocols/types/records": "interface-per-protocol-
// method"). Protocol methods are untyped by default; an explicit param/
// return type hint from the form carries through as-is.
func (e *Emitter) emitDefprotocol(v *ir.Defprotocol) CsDecl {
	methods := make([]CsInterfaceMethod, len(v.Methods))
	for i, m := range v.Methods {
		ret := m.ReturnType
		if ret == "" {
			ret = "object"
		}
		params := make([]CsParam, len(m.Params))
		for j, pname := range m.Params {
			typ := "object"
			if j < len(m.ParamTypes) && m.ParamTypes[j] != "" {
				typ = m.ParamTypes[j]
			}
			params[j] = CsParam{Name: MangleIdent(pname), Type: typ}
		}
		methods[i] = CsInterfaceMethod{ReturnType: ret, Name: MangleIdent(m.Name), Params: params}
	}
	return CsInterfaceDecl{Name: MangleIdent(v.Name), Methods: methods}
}

// emitDeftype emits a host class with one property per field (spec §4.4
// "deftype get/set-when-any-field-has-:attr properties + full-args/
// parameterless constructors"): if any field carries a :attr hint, every
// field becomes writable, and each field that has the hint is tagged with
// an attribute; otherwise all fields are readonly. A type with at least one
// field gets both a full-args constructor and a parameterless default
// constructor; a type with no fields declares neither.
func (e *Emitter) emitDeftype(v *ir.Deftype, isRecord bool) (CsDecl, error) {
	return e.buildClassDecl(v.Name, v.Fields, v.Interfaces, v.Extends, v.Methods, isRecord)
}

// emitDefrecord emits a host record type (spec §4.4: "defrecord as a host
// record type, class-style when fields carry attributes").
func (e *Emitter) emitDefrecord(v *ir.Defrecord) (CsDecl, error) {
	anyAttr := false
	for _, f := range v.Fields {
		if f.HasAttr {
			anyAttr = true
		}
	}
	return e.buildClassDecl(v.Name, v.Fields, v.Interfaces, v.Extends, v.Methods, !anyAttr)
}

func (e *Emitter) buildClassDecl(name string, fields []ir.FieldSpec, interfaces, extends []string, methods []*ir.Fn, isRecord bool) (CsDecl, error) {
	className := MangleIdent(name)
	anyAttr := false
	for _, f := range fields {
		if f.HasAttr {
			anyAttr = true
		}
	}

	props := make([]CsPropertyDecl, len(fields))
	ctorParams := make([]CsParam, len(fields))
	ctorBody := make([]CsStmt, len(fields))
	for i, f := range fields {
		fname := MangleIdent(f.Name)
		typ := cshortType(f.Type)
		attr := ""
		if f.HasAttr {
			attr = "Attribute(\"" + f.Name + "\")"
		}
		props[i] = CsPropertyDecl{Type: typ, Name: fname, Writable: anyAttr, Attribute: attr}
		ctorParams[i] = CsParam{Name: fname, Type: typ}
		ctorBody[i] = CsAssignStmt{Target: "this." + fname, Value: CsIdentExpr{Name: fname}}
	}

	var decl CsClassDecl
	decl.Name = className
	decl.IsRecord = isRecord && !anyAttr
	decl.Interfaces = append(append([]string{}, interfaces...), extends...)
	decl.Fields = props
	if len(fields) > 0 {
		decl.Ctors = append(decl.Ctors, CsCtorDecl{ClassName: className, Params: ctorParams, Body: ctorBody})
		decl.Ctors = append(decl.Ctors, CsCtorDecl{ClassName: className})
	}

	for _, fn := range methods {
		decls, err := e.emitTypeMethod(fn, fields)
		if err != nil {
			return nil, err
		}
		decl.Methods = append(decl.Methods, decls...)
	}
	return decl, nil
}

// emitTypeMethod emits one deftype/defrecord method implementation. Fields
// are pre-declared as locals typed from the field spec so bare references
// to them inside the method body resolve without an explicit `this.`.
func (e *Emitter) emitTypeMethod(fn *ir.Fn, fields []ir.FieldSpec) ([]CsMethodDecl, error) {
	if len(fn.Methods) != 1 {
		return nil, emitErrorf("Deftype", "multi-arity protocol method implementations are not supported")
	}
	m := fn.Methods[0]
	e.pushScope()
	for _, f := range fields {
		e.declareLocal(f.Name, f.Type)
	}
	body, err := e.emitFnMethodBody(m)
	e.popScope()
	if err != nil {
		return nil, err
	}
	return []CsMethodDecl{{ReturnType: "object", Name: MangleIdent(fn.Name), Params: emitFnMethodParams(m), Body: body}}, nil
}
