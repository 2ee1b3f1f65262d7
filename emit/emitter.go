package emit

import (
	"github.com/rubiojr/nettle/internal/errs"
	"github.com/rubiojr/nettle/ir"
	"github.com/rubiojr/nettle/ns"
)

// Flavor selects one of the two codegen strategies the emitter supports
// (spec §4.4 "Two codegen flavors"), mirroring how codeGen.testMode toggles
// an alternate emission path in rugo/compiler.
type Flavor int

const (
	// Direct compiles top-level defs straight to static methods/fields and
	// call sites to direct method calls.
	Direct Flavor = iota
	// VarIndirected allocates a named static Var handle for every
	// top-level def and routes calls through it, supporting live rebinding
	// (hot reload) at the cost of call indirection.
	VarIndirected
)

// Mode selects file-compilation vs. REPL-fragment emission, which changes
// Invoke's core-function indirection policy and the test harness's result
// reporting (spec §4.4 "Invoke", "Test harness").
type Mode int

const (
	FileMode Mode = iota
	ReplMode
)

// ctxKind is the three emission contexts every IR node is emitted under
// (spec §4.4): Statement, Expression, Return.
type ctxKind int

const (
	ctxStatement ctxKind = iota
	ctxExpression
	ctxReturn
)

// Emitter walks an ir.CompilationUnit and produces C# source text. One
// Emitter is used per compilation unit; Flavor and Mode are fixed for its
// lifetime (analogous to rugo/compiler's codeGen carrying a single
// testMode/buildMode pair for the whole run).
type Emitter struct {
	Flavor   Flavor
	Mode     Mode
	NSExport map[string]ns.AssemblyRef // from ns.Registry.Export(), for `using` synthesis

	scopes    []map[string]string // local name -> declared host type, for tag-cast lookups
	loopStack []loopFrame
	tmp       int
	curNS     string // the Clojure namespace of the unit currently being emitted
	curClass  string // the host class name of the unit currently being emitted
}

type loopFrame struct {
	bindingNames []string
	resultVar    string
}

func (e *Emitter) pushScope() { e.scopes = append(e.scopes, map[string]string{}) }
func (e *Emitter) popScope()  { e.scopes = e.scopes[:len(e.scopes)-1] }

func (e *Emitter) declareLocal(name, typ string) {
	if len(e.scopes) == 0 {
		e.pushScope()
	}
	e.scopes[len(e.scopes)-1][name] = typ
}

func (e *Emitter) localType(name string) (string, bool) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if t, ok := e.scopes[i][name]; ok {
			return t, t != ""
		}
	}
	return "", false
}

func (e *Emitter) freshTemp(prefix string) string {
	e.tmp++
	return prefix + "_" + itoa(e.tmp)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	return string(b)
}

// EmitUnit renders unit as a complete C# source file, deriving the host
// namespace/class name from unit.Namespace (spec §4.2/§6) and the `using`
// prelude from e.NSExport plus the fixed runtime-namespace imports every
// emitted file needs (spec §4.4 "File emission prelude").
func (e *Emitter) EmitUnit(unit *ir.CompilationUnit) (*CsFile, error) {
	e.curNS = unit.Namespace
	hostNS, className := ns.MangleNamespace(unit.Namespace)
	if hostNS == "" {
		hostNS = "Nettle.Generated"
	}
	e.curClass = className

	usings := []string{
		"System",
		"Nettle.Runtime",
	}
	isTest := false
	for _, ex := range unit.Exprs {
		if _, ok := ex.(*ir.Deftest); ok {
			isTest = true
		}
	}
	if isTest {
		usings = append(usings, "Xunit")
	}
	for _, ref := range e.NSExport {
		if ref.HostNamespace != "" && ref.HostNamespace != hostNS {
			usings = append(usings, ref.HostNamespace)
		}
	}
	usings = dedupStrings(usings)

	f := &CsFile{Usings: usings, Namespace: hostNS, ClassName: className, IsTest: isTest}

	e.pushScope()
	defer e.popScope()

	var tests []*ir.Deftest
	var topStmts []ir.Expr
	for _, ex := range unit.Exprs {
		switch v := ex.(type) {
		case *ir.Ns, *ir.InNs, *ir.Require:
			continue // declarative only, no emitted code
		case *ir.Deftest:
			tests = append(tests, v)
			continue
		}
		decls, err := e.emitTopLevel(ex)
		if err != nil {
			return nil, err
		}
		if decls != nil {
			f.Decls = append(f.Decls, decls...)
			f.Decls = append(f.Decls, CsBlankLine{})
			continue
		}
		topStmts = append(topStmts, ex)
	}

	if len(tests) > 0 {
		decls, err := e.emitTestHarness(tests, topStmts)
		if err != nil {
			return nil, err
		}
		f.Decls = append(f.Decls, decls...)
	} else if len(topStmts) > 0 {
		var body []CsStmt
		for _, ex := range topStmts {
			s, err := e.emitStmt(ex)
			if err != nil {
				return nil, err
			}
			body = append(body, s...)
		}
		f.Decls = append(f.Decls, CsMethodDecl{Static: true, Name: "Main", Body: body})
	}

	return f, nil
}

func dedupStrings(ss []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range ss {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// emitTopLevel handles the forms that become a class-level declaration
// rather than a statement inside Main: Def, Fn (named), Deftype, Defrecord,
// Defprotocol. Everything else returns (nil, nil) and is emitted as a Main
// body statement instead.
func (e *Emitter) emitTopLevel(ex ir.Expr) ([]CsDecl, error) {
	switch v := ex.(type) {
	case *ir.Def:
		return e.emitDef(v)
	case *ir.Fn:
		if v.Name != "" {
			return e.emitNamedFn(v)
		}
		return nil, nil
	case *ir.Defprotocol:
		return []CsDecl{e.emitDefprotocol(v)}, nil
	case *ir.Deftype:
		decl, err := e.emitDeftype(v, false)
		if err != nil {
			return nil, err
		}
		return []CsDecl{decl}, nil
	case *ir.Defrecord:
		decl, err := e.emitDefrecord(v)
		if err != nil {
			return nil, err
		}
		return []CsDecl{decl}, nil
	default:
		return nil, nil
	}
}

func emitErrorf(node, msg string) error {
	return &errs.EmitterError{Node: node, Msg: msg}
}

// cshortType gives a reasonable default host type for an untyped slot, used
// wherever the spec says "object?" for a dynamically-typed value.
func cshortType(t string) string {
	if t == "" {
		return "object"
	}
	return t
}

func isVoidishName(name string) bool {
	return name == "_"
}
