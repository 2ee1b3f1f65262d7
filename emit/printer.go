package emit

import (
	"fmt"
	"strings"
)

// PrintFile serializes a CsFile tree to formatted C# source code, the same
// indentation-tracking walk rugo/compiler's PrintGoFile does for Go output.
func PrintFile(f *CsFile) string {
	p := &csPrinter{}
	p.printFile(f)
	return p.sb.String()
}

type csPrinter struct {
	sb     strings.Builder
	indent int
}

func (p *csPrinter) line(format string, args ...any) {
	p.writeIndent()
	fmt.Fprintf(&p.sb, format, args...)
	p.sb.WriteByte('\n')
}

func (p *csPrinter) blank() { p.sb.WriteByte('\n') }

func (p *csPrinter) writeIndent() {
	for range p.indent {
		p.sb.WriteByte('\t')
	}
}

func (p *csPrinter) printFile(f *CsFile) {
	for _, u := range f.Usings {
		p.line("using %s;", u)
	}
	if len(f.Usings) > 0 {
		p.blank()
	}
	p.line("namespace %s", f.Namespace)
	p.line("{")
	p.indent++
	p.line("public class %s", f.ClassName)
	p.line("{")
	p.indent++
	for i, d := range f.Decls {
		p.printDecl(d)
		if i < len(f.Decls)-1 {
			p.blank()
		}
	}
	p.indent--
	p.line("}")
	p.indent--
	p.line("}")
}

func (p *csPrinter) printDecl(d CsDecl) {
	switch dt := normDecl(d).(type) {
	case CsFieldDecl:
		mod := ""
		if dt.Static {
			mod = "static "
		}
		if dt.Value != nil {
			p.line("public %s%s %s = %s;", mod, dt.Type, dt.Name, p.exprStr(dt.Value))
		} else {
			p.line("public %s%s %s;", mod, dt.Type, dt.Name)
		}
	case CsMethodDecl:
		p.printMethodDecl(dt)
	case CsCtorDecl:
		p.printCtorDecl(dt)
	case CsPropertyDecl:
		p.printPropertyDecl(dt)
	case CsInterfaceDecl:
		p.printInterfaceDecl(dt)
	case CsClassDecl:
		p.printClassDecl(dt)
	case CsRawDecl:
		for _, ln := range strings.Split(strings.TrimRight(dt.Code, "\n"), "\n") {
			if ln == "" {
				p.blank()
				continue
			}
			p.writeIndent()
			p.sb.WriteString(ln)
			p.sb.WriteByte('\n')
		}
	case CsBlankLine:
		p.blank()
	case CsComment:
		p.line("// %s", dt.Text)
	}
}

func (p *csPrinter) printMethodDecl(m CsMethodDecl) {
	for _, attr := range m.Attributes {
		p.line("%s", attr)
	}
	mods := "public "
	if m.Static {
		mods += "static "
	}
	if m.Async {
		mods += "async "
	}
	ret := m.ReturnType
	if ret == "" {
		ret = "void"
	}
	var params []string
	for _, prm := range m.Params {
		params = append(params, fmt.Sprintf("%s %s", prm.Type, prm.Name))
	}
	p.line("%s%s %s(%s)", mods, ret, m.Name, strings.Join(params, ", "))
	p.line("{")
	p.indent++
	for _, s := range m.Body {
		p.printStmt(s)
	}
	p.indent--
	p.line("}")
}

func (p *csPrinter) printCtorDecl(c CsCtorDecl) {
	var params []string
	for _, prm := range c.Params {
		params = append(params, fmt.Sprintf("%s %s", prm.Type, prm.Name))
	}
	p.line("public %s(%s)", c.ClassName, strings.Join(params, ", "))
	p.line("{")
	p.indent++
	for _, s := range c.Body {
		p.printStmt(s)
	}
	p.indent--
	p.line("}")
}

func (p *csPrinter) printPropertyDecl(prop CsPropertyDecl) {
	if prop.Attribute != "" {
		p.line("[%s]", prop.Attribute)
	}
	if prop.Writable {
		p.line("public %s %s { get; set; }", prop.Type, prop.Name)
	} else {
		p.line("public %s %s { get; }", prop.Type, prop.Name)
	}
}

func (p *csPrinter) printInterfaceDecl(iface CsInterfaceDecl) {
	p.line("public interface %s", iface.Name)
	p.line("{")
	p.indent++
	for _, m := range iface.Methods {
		var params []string
		for _, prm := range m.Params {
			params = append(params, fmt.Sprintf("%s %s", prm.Type, prm.Name))
		}
		p.line("%s %s(%s);", m.ReturnType, m.Name, strings.Join(params, ", "))
	}
	p.indent--
	p.line("}")
}

func (p *csPrinter) printClassDecl(c CsClassDecl) {
	kind := "class"
	if c.IsRecord {
		kind = "record"
	}
	sig := fmt.Sprintf("public %s %s", kind, c.Name)
	if len(c.Interfaces) > 0 {
		sig += " : " + strings.Join(c.Interfaces, ", ")
	}
	p.line("%s", sig)
	p.line("{")
	p.indent++
	for _, f := range c.Fields {
		p.printPropertyDecl(f)
	}
	for _, ctor := range c.Ctors {
		p.blank()
		p.printCtorDecl(ctor)
	}
	for _, m := range c.Methods {
		p.blank()
		p.printMethodDecl(m)
	}
	p.indent--
	p.line("}")
}

func (p *csPrinter) printStmt(s CsStmt) {
	switch st := normStmt(s).(type) {
	case CsExprStmt:
		p.line("%s;", p.exprStr(st.Expr))
	case CsLocalDecl:
		typ := st.Type
		if typ == "" {
			typ = "var"
		}
		if st.Value != nil {
			p.line("%s %s = %s;", typ, st.Name, p.exprStr(st.Value))
		} else {
			p.line("%s %s;", typ, st.Name)
		}
	case CsAssignStmt:
		p.line("%s = %s;", st.Target, p.exprStr(st.Value))
	case CsReturnStmt:
		if st.Value != nil {
			p.line("return %s;", p.exprStr(st.Value))
		} else {
			p.line("return;")
		}
	case CsIfStmt:
		p.printIf(st)
	case CsWhileTrueStmt:
		p.line("while (true)")
		p.line("{")
		p.indent++
		for _, s := range st.Body {
			p.printStmt(s)
		}
		p.indent--
		p.line("}")
	case CsSwitchIntStmt:
		p.printSwitchInt(st)
	case CsBreakStmt:
		p.line("break;")
	case CsContinueStmt:
		p.line("continue;")
	case CsTryStmt:
		p.printTry(st)
	case CsThrowStmt:
		p.line("throw %s;", p.exprStr(st.Value))
	case CsBlankLine:
		p.blank()
	case CsComment:
		p.line("// %s", st.Text)
	case CsRawStmt:
		for _, ln := range strings.Split(strings.TrimRight(st.Code, "\n"), "\n") {
			if ln == "" {
				p.blank()
				continue
			}
			p.writeIndent()
			p.sb.WriteString(strings.TrimLeft(ln, "\t"))
			p.sb.WriteByte('\n')
		}
	}
}

func (p *csPrinter) printIf(st CsIfStmt) {
	p.line("if (%s)", p.exprStr(st.Cond))
	p.line("{")
	p.indent++
	for _, s := range st.Body {
		p.printStmt(s)
	}
	p.indent--
	if len(st.Else) > 0 {
		p.line("}")
		p.line("else")
		p.line("{")
		p.indent++
		for _, s := range st.Else {
			p.printStmt(s)
		}
		p.indent--
	}
	p.line("}")
}

func (p *csPrinter) printSwitchInt(st CsSwitchIntStmt) {
	p.line("switch (%s)", p.exprStr(st.Tag))
	p.line("{")
	p.indent++
	for _, c := range st.Cases {
		p.line("case %d:", c.Value)
		p.indent++
		p.line("{")
		p.indent++
		for _, s := range c.Body {
			p.printStmt(s)
		}
		p.indent--
		p.line("}")
		p.indent--
	}
	if st.Default != nil {
		p.line("default:")
		p.indent++
		p.line("{")
		p.indent++
		for _, s := range st.Default {
			p.printStmt(s)
		}
		p.indent--
		p.line("}")
		p.indent--
	}
	p.indent--
	p.line("}")
}

func (p *csPrinter) printTry(st CsTryStmt) {
	p.line("try")
	p.line("{")
	p.indent++
	for _, s := range st.Body {
		p.printStmt(s)
	}
	p.indent--
	for _, c := range st.Catches {
		p.line("}")
		if c.Binding != "" {
			p.line("catch (%s %s)", c.ExType, c.Binding)
		} else {
			p.line("catch (%s)", c.ExType)
		}
		p.line("{")
		p.indent++
		for _, s := range c.Body {
			p.printStmt(s)
		}
		p.indent--
	}
	if st.Finally != nil {
		p.line("}")
		p.line("finally")
		p.line("{")
		p.indent++
		for _, s := range st.Finally {
			p.printStmt(s)
		}
		p.indent--
	}
	p.line("}")
}

// normExpr dereferences a pointer-shaped CsExpr to its underlying value so
// the switches below need only one case per node kind regardless of whether
// codegen built the node as a value or a pointer (both satisfy CsExpr since
// the csExpr() marker methods use value receivers).
func normExpr(e CsExpr) CsExpr {
	switch v := e.(type) {
	case *CsRawExpr:
		return *v
	case *CsIdentExpr:
		return *v
	case *CsLit:
		return *v
	case *CsNullExpr:
		return *v
	case *CsCallExpr:
		return *v
	case *CsMethodCallExpr:
		return *v
	case *CsDotExpr:
		return *v
	case *CsCastExpr:
		return *v
	case *CsNewExpr:
		return *v
	case *CsBinaryExpr:
		return *v
	case *CsTernaryExpr:
		return *v
	case *CsLambdaExpr:
		return *v
	case *CsStmtLambdaExpr:
		return *v
	case *CsIIFEExpr:
		return *v
	case *CsArrayLit:
		return *v
	case *CsParenExpr:
		return *v
	case *CsIndexExpr:
		return *v
	default:
		return e
	}
}

func normStmt(s CsStmt) CsStmt {
	switch v := s.(type) {
	case *CsExprStmt:
		return *v
	case *CsLocalDecl:
		return *v
	case *CsAssignStmt:
		return *v
	case *CsReturnStmt:
		return *v
	case *CsIfStmt:
		return *v
	case *CsWhileTrueStmt:
		return *v
	case *CsSwitchIntStmt:
		return *v
	case *CsBreakStmt:
		return *v
	case *CsContinueStmt:
		return *v
	case *CsTryStmt:
		return *v
	case *CsThrowStmt:
		return *v
	case *CsBlankLine:
		return *v
	case *CsComment:
		return *v
	case *CsRawStmt:
		return *v
	default:
		return s
	}
}

func normDecl(d CsDecl) CsDecl {
	switch v := d.(type) {
	case *CsFieldDecl:
		return *v
	case *CsMethodDecl:
		return *v
	case *CsPropertyDecl:
		return *v
	case *CsCtorDecl:
		return *v
	case *CsInterfaceDecl:
		return *v
	case *CsClassDecl:
		return *v
	case *CsRawDecl:
		return *v
	case *CsBlankLine:
		return *v
	case *CsComment:
		return *v
	default:
		return d
	}
}

func (p *csPrinter) exprStr(e CsExpr) string {
	switch ex := normExpr(e).(type) {
	case CsRawExpr:
		return ex.Code
	case CsIdentExpr:
		return ex.Name
	case CsLit:
		return ex.Code
	case CsNullExpr:
		return "null"
	case CsCallExpr:
		return fmt.Sprintf("%s%s(%s)", ex.Func, typeArgsStr(ex.TypeArgs), p.exprList(ex.Args))
	case CsMethodCallExpr:
		return fmt.Sprintf("%s.%s%s(%s)", p.exprStr(ex.Object), ex.Method, typeArgsStr(ex.TypeArgs), p.exprList(ex.Args))
	case CsDotExpr:
		return fmt.Sprintf("%s.%s", p.exprStr(ex.Object), ex.Field)
	case CsCastExpr:
		if ex.IsNum {
			return fmt.Sprintf("Convert.To%s(%s)", ex.Type, p.exprStr(ex.Value))
		}
		return fmt.Sprintf("(%s)%s", ex.Type, p.exprStr(ex.Value))
	case CsNewExpr:
		return fmt.Sprintf("new %s(%s)", ex.Type, p.exprList(ex.Args))
	case CsBinaryExpr:
		return fmt.Sprintf("%s %s %s", p.exprStr(ex.Left), ex.Op, p.exprStr(ex.Right))
	case CsTernaryExpr:
		return fmt.Sprintf("%s ? %s : %s", p.exprStr(ex.Cond), p.exprStr(ex.Then), p.exprStr(ex.Else))
	case CsLambdaExpr:
		return fmt.Sprintf("(%s) => %s", strings.Join(ex.Params, ", "), p.exprStr(ex.Body))
	case CsStmtLambdaExpr:
		return p.printStmtLambda(ex)
	case CsIIFEExpr:
		return p.printIIFE(ex)
	case CsArrayLit:
		return fmt.Sprintf("new %s[] { %s }", ex.ElemType, p.exprList(ex.Elems))
	case CsParenExpr:
		return fmt.Sprintf("(%s)", p.exprStr(ex.Inner))
	case CsIndexExpr:
		return fmt.Sprintf("%s[%s]", p.exprStr(ex.Array), p.exprStr(ex.Index))
	default:
		return "/* unknown expr */null"
	}
}

func (p *csPrinter) exprList(es []CsExpr) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = p.exprStr(e)
	}
	return strings.Join(parts, ", ")
}

func typeArgsStr(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return "<" + strings.Join(args, ", ") + ">"
}

func (p *csPrinter) printIIFE(e CsIIFEExpr) string {
	ret := e.ReturnType
	if ret == "" {
		ret = "object"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "((Func<%s>)(() =>\n", ret)
	p.writeIndentInto(&sb)
	sb.WriteString("{\n")
	inner := &csPrinter{indent: p.indent + 1}
	for _, s := range e.Body {
		inner.printStmt(s)
	}
	if e.Result != nil {
		inner.line("return %s;", inner.exprStr(e.Result))
	}
	sb.WriteString(inner.sb.String())
	p.writeIndentInto(&sb)
	sb.WriteString("}))()")
	return sb.String()
}

func (p *csPrinter) printStmtLambda(e CsStmtLambdaExpr) string {
	var params []string
	for _, prm := range e.Params {
		params = append(params, fmt.Sprintf("%s %s", prm.Type, prm.Name))
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "(%s) =>\n", strings.Join(params, ", "))
	p.writeIndentInto(&sb)
	sb.WriteString("{\n")
	inner := &csPrinter{indent: p.indent + 1}
	for _, s := range e.Body {
		inner.printStmt(s)
	}
	sb.WriteString(inner.sb.String())
	p.writeIndentInto(&sb)
	sb.WriteString("}")
	return sb.String()
}

func (p *csPrinter) writeIndentInto(sb *strings.Builder) {
	for range p.indent {
		sb.WriteByte('\t')
	}
}
