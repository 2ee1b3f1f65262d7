// Package ir defines the typed expression IR the analyzer produces and the
// emitter consumes (spec §3 "IR Expression", §5). It is a tagged sum: each
// variant is a distinct Go type implementing Expr, dispatched on by a type
// switch at the point of use — the same style rugo/ast uses for its own
// Node/Statement/Expr interfaces, just one level deeper since every Expr
// here also carries an inferred type and async flag.
package ir

import "github.com/rubiojr/nettle/form"

// Expr is the marker interface every IR node implements.
type Expr interface {
	exprNode()
	base() *Base
}

// Base carries the fields every IR node has: an optional inferred host
// type (empty string means unknown/dynamic) and whether the expression
// sits in an async context.
type Base struct {
	Line    int
	Type    string // inferred host type, "" if unknown
	IsAsync bool
}

func (b *Base) base() *Base { return b }

// Type returns e's inferred host type, or "" if unknown.
func Type(e Expr) string { return e.base().Type }

// SetType sets e's inferred host type in place.
func SetType(e Expr, t string) { e.base().Type = t }

// Literal is a primitive or nil constant.
type Literal struct {
	Base
	Value form.Form
}

func (*Literal) exprNode() {}

// SymbolRef is a reference to a symbol; IsLocal distinguishes a lexical
// binding from a var reference resolved at emission time.
type SymbolRef struct {
	Base
	Symbol  *form.Symbol
	IsLocal bool
}

func (*SymbolRef) exprNode() {}

// KeywordRef is a reference to an interned keyword value.
type KeywordRef struct {
	Base
	Keyword *form.Keyword
}

func (*KeywordRef) exprNode() {}

// VectorLit, MapLit, SetLit are collection-literal constructors.
type VectorLit struct {
	Base
	Elems []Expr
}

func (*VectorLit) exprNode() {}

// KV is one key/value entry of a MapLit.
type KV struct {
	Key   Expr
	Value Expr
}

type MapLit struct {
	Base
	Pairs []KV
}

func (*MapLit) exprNode() {}

type SetLit struct {
	Base
	Elems []Expr
}

func (*SetLit) exprNode() {}

// Def is a top-level (or nested) binding of a var.
type Def struct {
	Base
	Name       string
	Init       Expr // nil for a bare forward declaration
	Docstring  string
	TypeHint   string
	IsPrivate  bool
}

func (*Def) exprNode() {}

// FnMethod is one arity's parameter list and body within a Fn.
type FnMethod struct {
	FixedParams []string
	RestParam   string // "" if this method is not variadic
	Body        []Expr
	ReturnType  string
	ParamTypes  []string // parallel to FixedParams; "" entries are untyped
}

// Fn is a (possibly multi-arity) function literal or named function def.
type Fn struct {
	Base
	Name        string // "" for an anonymous fn
	Methods     []*FnMethod
	IsVariadic  bool
}

func (*Fn) exprNode() {}

// Binding is one let/loop binding pair.
type Binding struct {
	Name string
	Init Expr
}

// Let introduces sequential local bindings visible to Body.
type Let struct {
	Base
	Bindings []Binding
	Body     []Expr
}

func (*Let) exprNode() {}

// Loop is like Let but establishes a Recur target.
type Loop struct {
	Base
	Bindings []Binding
	Body     []Expr
}

func (*Loop) exprNode() {}

// Do evaluates Exprs in order, yielding the last.
type Do struct {
	Base
	Exprs []Expr
}

func (*Do) exprNode() {}

// If is a conditional; Else may be nil.
type If struct {
	Base
	Test Expr
	Then Expr
	Else Expr
}

func (*If) exprNode() {}

// Invoke is a function call.
type Invoke struct {
	Base
	Fn   Expr
	Args []Expr
}

func (*Invoke) exprNode() {}

// InstanceMethod / StaticMethod are interop method calls.
type InstanceMethod struct {
	Base
	Target   Expr
	Name     string
	Args     []Expr
	TypeArgs []string
}

func (*InstanceMethod) exprNode() {}

type StaticMethod struct {
	Base
	TypeName string
	Name     string
	Args     []Expr
	TypeArgs []string
}

func (*StaticMethod) exprNode() {}

// InstanceProperty / StaticProperty are interop property accesses.
type InstanceProperty struct {
	Base
	Target Expr
	Name   string
}

func (*InstanceProperty) exprNode() {}

type StaticProperty struct {
	Base
	TypeName string
	Name     string
}

func (*StaticProperty) exprNode() {}

// New is a constructor call.
type New struct {
	Base
	TypeName string
	Args     []Expr
}

func (*New) exprNode() {}

// Cast wraps Inner with an explicit host-type cast.
type Cast struct {
	Base
	TypeName string
	Inner    Expr
}

func (*Cast) exprNode() {}

// Assign is `set!`.
type Assign struct {
	Base
	Target Expr
	Value  Expr
}

func (*Assign) exprNode() {}

// Throw raises an exception.
type Throw struct {
	Base
	Exception Expr
}

func (*Throw) exprNode() {}

// CatchClause is one `catch` clause of a Try.
type CatchClause struct {
	ExType  string
	Binding string
	Body    []Expr
}

// Try is a try/catch/finally block.
type Try struct {
	Base
	Body    []Expr
	Catches []CatchClause
	Finally []Expr // nil if absent
}

func (*Try) exprNode() {}

// Recur is a tail-position re-invocation of the enclosing Loop or Fn
// method (spec invariant: must live in tail position, arity must match).
type Recur struct {
	Base
	Args []Expr
}

func (*Recur) exprNode() {}

// Await is the sole suspension point in async functions.
type Await struct {
	Base
	Task Expr
}

func (*Await) exprNode() {}

// Quote reconstructs Quoted as a runtime value at emission time; Quoted
// must contain only inert forms (no further expressions).
type Quote struct {
	Base
	Quoted form.Form
}

func (*Quote) exprNode() {}

// PrimitiveOp is a specialized arithmetic/compare operation over operands
// whose types were all resolved at analysis time (spec §4.3).
type PrimitiveOp struct {
	Base
	Operator      string
	PrimitiveType string
	Operands      []Expr
}

func (*PrimitiveOp) exprNode() {}

// Ns / InNs / Require are declarative namespace forms.
type Ns struct {
	Base
	Name string
}

func (*Ns) exprNode() {}

type InNs struct {
	Base
	Name string
}

func (*InNs) exprNode() {}

type Require struct {
	Base
	Path  string
	Alias string
	Refer []string
}

func (*Require) exprNode() {}

// Interp is one `~{expr}` placeholder inside a RawHost template.
type Interp struct {
	Placeholder string
	Expr        Expr
}

// RawHost embeds a host-source template with analyzed interpolations.
type RawHost struct {
	Base
	Template string
	Interps  []Interp
}

func (*RawHost) exprNode() {}

// ProtoMethod is one method signature declared by a Defprotocol.
type ProtoMethod struct {
	Name       string
	Params     []string
	ParamTypes []string
	ReturnType string
}

// Defprotocol compiles to a host interface with one method per entry.
type Defprotocol struct {
	Base
	Name    string
	Methods []ProtoMethod
}

func (*Defprotocol) exprNode() {}

// FieldSpec is one field of a Deftype/Defrecord.
type FieldSpec struct {
	Name    string
	Type    string
	HasAttr bool // true if the field carries host-level attributes
}

// Deftype compiles to a host class with one property per field.
type Deftype struct {
	Base
	Name       string
	Fields     []FieldSpec
	Interfaces []string
	Extends    []string // extra base interfaces from :extends metadata
	Methods    []*Fn
}

func (*Deftype) exprNode() {}

// Defrecord is like Deftype but emitted as a host record type.
type Defrecord struct {
	Base
	Name       string
	Fields     []FieldSpec
	Interfaces []string
	Extends    []string
	Methods    []*Fn
}

func (*Defrecord) exprNode() {}

// Deftest is one test-harness test definition.
type Deftest struct {
	Base
	Name string
	Body []Expr
}

func (*Deftest) exprNode() {}

// Is is a test-harness assertion.
type Is struct {
	Base
	Assertion Expr
}

func (*Is) exprNode() {}

// InstanceCheck is `instance?`.
type InstanceCheck struct {
	Base
	TypeName string
	Target   Expr
}

func (*InstanceCheck) exprNode() {}

// CompilationUnit is the result of analyzing one file's forms: at most one
// ns form, plus the analyzed top-level expressions.
type CompilationUnit struct {
	Namespace string // "" if the file had no (ns ...) form
	Exprs     []Expr
}
