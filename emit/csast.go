// Package emit walks the ir package's typed expression tree and emits C#
// source text (spec §4.4). It mirrors rugo/compiler's split between an
// output-AST (this file) and a printer (printer.go): codegen builds a CsFile
// tree, the printer serializes it to text. Keeping the two separate lets the
// context-threading logic in expr.go construct C# shapes without caring
// about indentation or punctuation.
package emit

// CsDecl is a top-level declaration inside the generated class.
type CsDecl interface{ csDecl() }

// CsStmt is a statement inside a method body.
type CsStmt interface{ csStmt() }

// CsExpr is an expression.
type CsExpr interface{ csExpr() }

// --- File level ---

// CsFile represents one generated C# source file: one namespace containing
// one class.
type CsFile struct {
	Usings    []string
	Namespace string
	ClassName string
	IsTest    bool // true if the unit contains deftest forms
	Decls     []CsDecl
}

// --- Declaration level ---

// CsFieldDecl represents: [static] Type Name [= value];
type CsFieldDecl struct {
	Static bool
	Type   string
	Name   string
	Value  CsExpr // nil for uninitialized
}

func (CsFieldDecl) csDecl() {}

// CsParam is one method parameter.
type CsParam struct {
	Name string
	Type string // "object" when untyped
}

// CsMethodDecl represents: [static] [async] Type Name(params) { body }
type CsMethodDecl struct {
	Static     bool
	Async      bool
	ReturnType string // "void" for statement-only methods
	Name       string
	Params     []CsParam
	Body       []CsStmt
	Attributes []string // e.g. "[Fact]" for a test method
}

func (CsMethodDecl) csDecl() {}

// CsPropertyDecl represents: Type Name { get; [set;] }
type CsPropertyDecl struct {
	Type      string
	Name      string
	Writable  bool
	Attribute string // host attribute spec from :attr metadata, "" if none
}

func (CsPropertyDecl) csDecl() {}

// CsCtorDecl represents a constructor.
type CsCtorDecl struct {
	ClassName string
	Params    []CsParam
	Body      []CsStmt
}

func (CsCtorDecl) csDecl() {}

// CsInterfaceDecl represents a host interface with one method per protocol
// method (Defprotocol emission).
type CsInterfaceDecl struct {
	Name    string
	Methods []CsInterfaceMethod
}

func (CsInterfaceDecl) csDecl() {}

// CsInterfaceMethod is one method signature of a CsInterfaceDecl.
type CsInterfaceMethod struct {
	ReturnType string
	Name       string
	Params     []CsParam
}

// CsClassDecl represents a nested host class (Deftype emission).
type CsClassDecl struct {
	Name       string
	IsRecord   bool // Defrecord emission
	Interfaces []string
	Fields     []CsPropertyDecl
	Ctors      []CsCtorDecl
	Methods    []CsMethodDecl
}

func (CsClassDecl) csDecl() {}

// CsRawDecl is an escape hatch for raw C# text at the declaration level.
type CsRawDecl struct {
	Code string
}

func (CsRawDecl) csDecl() {}

// CsBlankLine emits a blank line.
type CsBlankLine struct{}

func (CsBlankLine) csDecl() {}
func (CsBlankLine) csStmt() {}

// --- Statement level ---

// CsExprStmt is an expression used as a statement: expr;
type CsExprStmt struct {
	Expr CsExpr
}

func (CsExprStmt) csStmt() {}

// CsLocalDecl represents: [var|Type] name [= value];
type CsLocalDecl struct {
	Type  string // "var" for inferred
	Name  string // "_" emits a discard
	Value CsExpr // nil for uninitialized
}

func (CsLocalDecl) csStmt() {}

// CsAssignStmt represents: target = value;
type CsAssignStmt struct {
	Target string
	Value  CsExpr
}

func (CsAssignStmt) csStmt() {}

// CsReturnStmt represents: return [expr];
type CsReturnStmt struct {
	Value CsExpr // nil for bare return (void)
}

func (CsReturnStmt) csStmt() {}

// CsIfStmt represents: if (cond) { body } [else { body }]
type CsIfStmt struct {
	Cond CsExpr
	Body []CsStmt
	Else []CsStmt // nil for no else
}

func (CsIfStmt) csStmt() {}

// CsWhileTrueStmt represents: while (true) { body } — the Loop/Recur
// lowering target (spec §4.4 "Loop/Recur").
type CsWhileTrueStmt struct {
	Body []CsStmt
}

func (CsWhileTrueStmt) csStmt() {}

// CsSwitchIntStmt represents a switch over an integer-valued expression
// (used for multi-arity dispatch by argument count, spec §4.4 "Var-
// indirected": "Multi-arity functions bind a single dispatching lambda that
// switches on argument count").
type CsSwitchIntStmt struct {
	Tag     CsExpr
	Cases   []CsIntCase
	Default []CsStmt
}

func (CsSwitchIntStmt) csStmt() {}

// CsIntCase is one case of a CsSwitchIntStmt.
type CsIntCase struct {
	Value int
	Body  []CsStmt
}

// CsBreakStmt represents: break;
type CsBreakStmt struct{}

func (CsBreakStmt) csStmt() {}

// CsContinueStmt represents: continue;
type CsContinueStmt struct{}

func (CsContinueStmt) csStmt() {}

// CsTryStmt represents a try/catch/finally statement.
type CsTryStmt struct {
	Body    []CsStmt
	Catches []CsCatch
	Finally []CsStmt // nil if absent
}

func (CsTryStmt) csStmt() {}

// CsCatch is one catch clause.
type CsCatch struct {
	ExType  string
	Binding string // "" if the exception isn't bound
	Body    []CsStmt
}

// CsThrowStmt represents: throw expr;
type CsThrowStmt struct {
	Value CsExpr
}

func (CsThrowStmt) csStmt() {}

// CsComment represents: // text
type CsComment struct {
	Text string
}

func (CsComment) csStmt() {}
func (CsComment) csDecl() {}

// CsRawStmt is an escape hatch for raw C# text at the statement level.
type CsRawStmt struct {
	Code string
}

func (CsRawStmt) csStmt() {}

// --- Expression level ---

// CsRawExpr wraps already-rendered C# source (the usual way nested
// expressions get threaded into parent nodes, mirroring GoRawExpr).
type CsRawExpr struct {
	Code string
}

func (CsRawExpr) csExpr() {}

// CsIdentExpr is a bare identifier reference.
type CsIdentExpr struct {
	Name string
}

func (CsIdentExpr) csExpr() {}

// CsLit renders a literal token verbatim (already formatted with any
// required numeric/string suffix or escaping).
type CsLit struct {
	Code string
}

func (CsLit) csExpr() {}

// CsCallExpr represents: func(args)
type CsCallExpr struct {
	Func     string
	TypeArgs []string
	Args     []CsExpr
}

func (CsCallExpr) csExpr() {}

// CsMethodCallExpr represents: obj.Method(args)
type CsMethodCallExpr struct {
	Object   CsExpr
	Method   string
	TypeArgs []string
	Args     []CsExpr
}

func (CsMethodCallExpr) csExpr() {}

// CsDotExpr represents: obj.Field
type CsDotExpr struct {
	Object CsExpr
	Field  string
}

func (CsDotExpr) csExpr() {}

// CsCastExpr represents: (Type)value, or a conversion call for primitive
// numeric widening (spec §4.4 "Cast").
type CsCastExpr struct {
	Type  string
	Value CsExpr
	IsNum bool // true: emit Convert.ToX(value); false: emit (Type)value
}

func (CsCastExpr) csExpr() {}

// CsNewExpr represents: new Type(args)
type CsNewExpr struct {
	Type string
	Args []CsExpr
}

func (CsNewExpr) csExpr() {}

// CsBinaryExpr represents: left op right
type CsBinaryExpr struct {
	Left  CsExpr
	Op    string
	Right CsExpr
}

func (CsBinaryExpr) csExpr() {}

// CsTernaryExpr represents: cond ? then : els (the If-in-Expression-context
// lowering, spec §4.4).
type CsTernaryExpr struct {
	Cond CsExpr
	Then CsExpr
	Else CsExpr
}

func (CsTernaryExpr) csExpr() {}

// CsLambdaExpr represents a C# lambda: (params) => body, used both for
// wrapping core functions passed as higher-order arguments and as the
// Var-indirected codegen's dispatching lambda.
type CsLambdaExpr struct {
	Params []string
	Body   CsExpr // expression-bodied
}

func (CsLambdaExpr) csExpr() {}

// CsStmtLambdaExpr is a statement-bodied C# lambda: (Type p, ...) => { body }.
// Used for fn literals and the Var-indirected flavor's dispatching lambda,
// where an expression-bodied CsLambdaExpr isn't expressive enough.
type CsStmtLambdaExpr struct {
	Params []CsParam
	Body   []CsStmt
}

func (CsStmtLambdaExpr) csExpr() {}

// CsIIFEExpr represents an immediately invoked lambda used to give Let/If an
// expression-context value in C#: (() => { body; return expr; })(). This is
// the direct analogue of rugo/compiler's GoIIFEExpr (spec §4.4 "Let").
type CsIIFEExpr struct {
	ReturnType string // "object" when untyped
	Body       []CsStmt
	Result     CsExpr // nil when the body's tail is itself a statement
}

func (CsIIFEExpr) csExpr() {}

// CsArrayLit represents: new Type[] { elems }
type CsArrayLit struct {
	ElemType string
	Elems    []CsExpr
}

func (CsArrayLit) csExpr() {}

// CsIndexExpr represents: array[index]
type CsIndexExpr struct {
	Array CsExpr
	Index CsExpr
}

func (CsIndexExpr) csExpr() {}

// CsParenExpr represents: (inner)
type CsParenExpr struct {
	Inner CsExpr
}

func (CsParenExpr) csExpr() {}

// CsNullExpr represents: null
type CsNullExpr struct{}

func (CsNullExpr) csExpr() {}
