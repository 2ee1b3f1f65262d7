// Package analyze lowers parsed forms into the typed ir.Expr IR (spec
// §4.3): special-form dispatch, user-macro expansion, lexical scope
// tracking, type-hint extraction, and primitive-arithmetic specialization.
package analyze

import (
	"strings"
	"unicode"

	"github.com/rubiojr/nettle/form"
	"github.com/rubiojr/nettle/internal/errs"
	"github.com/rubiojr/nettle/ir"
	"github.com/rubiojr/nettle/macro"
	"github.com/rubiojr/nettle/ns"
)

// Analyzer lowers parsed forms to IR. One Analyzer is used per compilation
// run, sharing the namespace registry and macro expander across every file
// in the run (spec §9).
type Analyzer struct {
	NS       *ns.Registry
	Macros   *macro.Expander
	coreNS   map[string]bool
	ownNS    string // the dialect's own built-in namespace (e.g. "nettle.core")
}

// NewAnalyzer returns an Analyzer over the given shared namespace registry
// and macro expander. ownCoreNS is the dialect's own core namespace name,
// stripped by symbol resolution rule 1 alongside clojure.core/cljs.core.
func NewAnalyzer(reg *ns.Registry, exp *macro.Expander, ownCoreNS string) *Analyzer {
	return &Analyzer{
		NS:     reg,
		Macros: exp,
		coreNS: map[string]bool{"clojure.core": true, "cljs.core": true, ownCoreNS: true},
		ownNS:  ownCoreNS,
	}
}

// AnalyzeFile analyzes a whole file's forms, picking out at most one `ns`
// form and switching the current namespace for the remainder (spec §2).
func (a *Analyzer) AnalyzeFile(forms []form.Form) (*ir.CompilationUnit, error) {
	unit := &ir.CompilationUnit{}
	ctx := NewContext()
	sawNS := false

	for _, f := range forms {
		if headName, ok := form.HeadSymbol(f); ok && headName == "ns" {
			if sawNS {
				return nil, &errs.AnalyzerError{Msg: "a file may declare at most one ns form", Form: form.GoString(f)}
			}
			sawNS = true
		}
		e, err := a.Analyze(f, ctx)
		if err != nil {
			return nil, err
		}
		if nsExpr, ok := e.(*ir.Ns); ok {
			unit.Namespace = nsExpr.Name
		}
		unit.Exprs = append(unit.Exprs, e)
	}
	return unit, nil
}

// Analyze lowers a single form to IR under ctx, applying type-hint
// extraction (spec §4.3) around whatever analyzeInner produces.
func (a *Analyzer) Analyze(f form.Form, ctx *Context) (ir.Expr, error) {
	e, err := a.analyzeInner(f, ctx)
	if err != nil {
		return nil, err
	}
	return wrapWithTag(f, e), nil
}

func (a *Analyzer) analyzeInner(f form.Form, ctx *Context) (ir.Expr, error) {
	switch v := f.(type) {
	case nil:
		return &ir.Literal{Value: form.NilForm}, nil
	case form.Bool, form.Int, form.Float, form.Decimal, form.Char, form.String:
		return &ir.Literal{Value: v}, nil
	case *form.Keyword:
		return &ir.KeywordRef{Keyword: v}, nil
	case *form.Symbol:
		return a.resolveSymbol(v, ctx)
	case *form.Vector:
		elems, err := a.analyzeAll(v.Items, ctx)
		if err != nil {
			return nil, err
		}
		return &ir.VectorLit{Elems: elems}, nil
	case *form.Set:
		elems, err := a.analyzeAll(v.Items, ctx)
		if err != nil {
			return nil, err
		}
		return &ir.SetLit{Elems: elems}, nil
	case *form.Map:
		pairs := make([]ir.KV, 0, len(v.Pairs))
		for _, p := range v.Pairs {
			k, err := a.Analyze(p.Key, ctx)
			if err != nil {
				return nil, err
			}
			val, err := a.Analyze(p.Value, ctx)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, ir.KV{Key: k, Value: val})
		}
		return &ir.MapLit{Pairs: pairs}, nil
	case *form.List:
		return a.analyzeList(v, ctx)
	default:
		if v == form.NilForm {
			return &ir.Literal{Value: form.NilForm}, nil
		}
		return nil, &errs.AnalyzerError{Msg: "unrecognized form kind", Form: form.GoString(f)}
	}
}

func (a *Analyzer) analyzeAll(forms []form.Form, ctx *Context) ([]ir.Expr, error) {
	out := make([]ir.Expr, len(forms))
	for i, f := range forms {
		e, err := a.Analyze(f, ctx)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// analyzeBody implicit-do wraps a sequence of body forms: zero forms
// analyzes to a nil literal, one form analyzes directly, more than one is
// wrapped in a Do.
func (a *Analyzer) analyzeBody(forms []form.Form, ctx *Context) (ir.Expr, error) {
	if len(forms) == 0 {
		return &ir.Literal{Value: form.NilForm}, nil
	}
	exprs, err := a.analyzeAll(forms, ctx)
	if err != nil {
		return nil, err
	}
	if len(exprs) == 1 {
		return exprs[0], nil
	}
	return &ir.Do{Exprs: exprs}, nil
}

func (a *Analyzer) analyzeList(lst *form.List, ctx *Context) (ir.Expr, error) {
	if len(lst.Items) == 0 {
		return &ir.Literal{Value: lst}, nil
	}

	if sym, ok := lst.Items[0].(*form.Symbol); ok {
		resolvedName, isCore := a.stripCoreNS(sym)
		if sym.NS == "" || isCore {
			if handler, ok := specialForms[resolvedName]; ok {
				return handler(a, lst, ctx)
			}
			if isRawHostEscape(resolvedName) {
				return a.analyzeRawHost(lst, ctx)
			}
			if a.Macros.IsMacro(resolvedName) {
				expanded, err := a.Macros.MacroexpandOnce(lst)
				if err != nil {
					return nil, err
				}
				return a.Analyze(expanded, ctx)
			}
			if expr, handled, err := a.trySugar(resolvedName, lst, ctx); handled {
				return expr, err
			}
		} else if isUpperFirst(sym.NS) {
			return a.buildStaticMethod(sym.NS, sym.Name, lst.Items[1:], ctx)
		}

		if strings.HasPrefix(sym.Name, ".-") && sym.NS == "" {
			return a.buildInstanceProperty(sym.Name[2:], lst.Items[1:], ctx)
		}
		if strings.HasPrefix(sym.Name, ".") && len(sym.Name) > 1 && sym.NS == "" {
			return a.buildInstanceMethod(sym.Name[1:], lst.Items[1:], ctx)
		}
		if strings.HasSuffix(sym.Name, ".") && len(sym.Name) > 1 && sym.NS == "" {
			return a.buildConstructor(sym.Name[:len(sym.Name)-1], lst.Items[1:], ctx)
		}
	}

	return a.buildInvoke(lst, ctx)
}

func (a *Analyzer) buildInvoke(lst *form.List, ctx *Context) (ir.Expr, error) {
	fnExpr, err := a.Analyze(lst.Items[0], ctx)
	if err != nil {
		return nil, err
	}
	args, err := a.analyzeAll(lst.Items[1:], ctx)
	if err != nil {
		return nil, err
	}

	if sym, ok := lst.Items[0].(*form.Symbol); ok && sym.NS == "" && !ctx.IsLocal(sym.Name) {
		if pop, ok := trySpecializePrimitiveOp(sym.Name, args, ctx); ok {
			return pop, nil
		}
	}

	return &ir.Invoke{Fn: fnExpr, Args: args}, nil
}

// stripCoreNS implements symbol resolution rule 1: a symbol qualified with
// clojure.core, cljs.core, or the dialect's own core namespace is treated
// as if it were unqualified.
func (a *Analyzer) stripCoreNS(sym *form.Symbol) (name string, wasCore bool) {
	if sym.NS != "" && a.coreNS[sym.NS] {
		return sym.Name, true
	}
	return sym.Name, false
}

func (a *Analyzer) resolveSymbol(sym *form.Symbol, ctx *Context) (ir.Expr, error) {
	name, isCore := a.stripCoreNS(sym)
	if sym.NS == "" || isCore {
		if ctx.IsLocal(name) {
			return &ir.SymbolRef{Symbol: &form.Symbol{Name: name}, IsLocal: true}, nil
		}
		return &ir.SymbolRef{Symbol: &form.Symbol{Name: name}, IsLocal: false}, nil
	}
	if isUpperFirst(sym.NS) {
		return &ir.StaticProperty{TypeName: sym.NS, Name: sym.Name}, nil
	}
	return &ir.SymbolRef{Symbol: sym, IsLocal: false}, nil
}

func isUpperFirst(s string) bool {
	if s == "" {
		return false
	}
	r := []rune(s)[0]
	return unicode.IsUpper(r)
}

func (a *Analyzer) buildInstanceProperty(name string, rest []form.Form, ctx *Context) (ir.Expr, error) {
	if len(rest) < 1 {
		return nil, &errs.AnalyzerError{Msg: "instance property access requires a target", Form: name}
	}
	target, err := a.Analyze(rest[0], ctx)
	if err != nil {
		return nil, err
	}
	return &ir.InstanceProperty{Target: target, Name: name}, nil
}

func (a *Analyzer) buildInstanceMethod(name string, rest []form.Form, ctx *Context) (ir.Expr, error) {
	if len(rest) < 1 {
		return nil, &errs.AnalyzerError{Msg: "instance method call requires a target", Form: name}
	}
	target, err := a.Analyze(rest[0], ctx)
	if err != nil {
		return nil, err
	}
	args, err := a.analyzeAll(rest[1:], ctx)
	if err != nil {
		return nil, err
	}
	baseName, typeArgs := parseGenericMethodName(name)
	return &ir.InstanceMethod{Target: target, Name: baseName, Args: args, TypeArgs: typeArgs}, nil
}

func (a *Analyzer) buildStaticMethod(typeNS, name string, rest []form.Form, ctx *Context) (ir.Expr, error) {
	args, err := a.analyzeAll(rest, ctx)
	if err != nil {
		return nil, err
	}
	baseName, typeArgs := parseGenericMethodName(name)
	return &ir.StaticMethod{TypeName: typeNS, Name: baseName, Args: args, TypeArgs: typeArgs}, nil
}

func (a *Analyzer) buildConstructor(typeName string, rest []form.Form, ctx *Context) (ir.Expr, error) {
	args, err := a.analyzeAll(rest, ctx)
	if err != nil {
		return nil, err
	}
	return &ir.New{TypeName: typeName, Args: args}, nil
}

// parseGenericMethodName extracts a generic method call's base name and
// type-argument list from either `|Name<T1,T2>|` pipe-escaped syntax or a
// bare `Name<T1,T2>` syntax; nested angle brackets are balanced by depth
// (spec §4.4).
func parseGenericMethodName(name string) (base string, typeArgs []string) {
	name = strings.Trim(name, "|")
	open := strings.IndexByte(name, '<')
	if open < 0 {
		return name, nil
	}
	depth := 0
	close := -1
	for i := open; i < len(name); i++ {
		switch name[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				close = i
			}
		}
		if close >= 0 {
			break
		}
	}
	if close < 0 {
		return name, nil
	}
	base = name[:open]
	inner := name[open+1 : close]
	for _, part := range splitTopLevel(inner, ',') {
		typeArgs = append(typeArgs, strings.TrimSpace(part))
	}
	return base, typeArgs
}

// splitTopLevel splits s on sep, but only at depth 0 with respect to angle
// brackets, so nested generic type arguments aren't split incorrectly.
func splitTopLevel(s string, sep byte) []string {
	var out []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		case sep:
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])
	return out
}
