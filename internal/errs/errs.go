// Package errs defines the compiler's error taxonomy (spec §7). Each kind is
// a distinct exported type so callers can type-switch or errors.As on the
// specific failure instead of parsing messages, while still wrapping with
// fmt.Errorf("%w", ...) the way rugo/compiler does throughout compiler.go.
package errs

import "fmt"

// Pos is a source position carried by every compile-time error so
// diagnostics can point back at the offending form, mirroring how
// rugo/ast.BaseStmt carries SourceLine/EndLine.
type Pos struct {
	File string
	Line int
}

func (p Pos) String() string {
	if p.File == "" {
		return fmt.Sprintf("line %d", p.Line)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// AnalyzerError reports a malformed special form, an unresolvable type
// reference, or an unrecognized form kind. Fatal to the current compilation
// unit.
type AnalyzerError struct {
	Pos  Pos
	Form string // textual rendering of the offending form, for context
	Msg  string
}

func (e *AnalyzerError) Error() string {
	return fmt.Sprintf("%s: analyzer error: %s (in %s)", e.Pos, e.Msg, e.Form)
}

// MacroExpansionError wraps a panic or error raised by a user macro's
// transform, with the surrounding form kept for context.
type MacroExpansionError struct {
	Pos   Pos
	Macro string
	Form  string
	Cause error
}

func (e *MacroExpansionError) Error() string {
	return fmt.Sprintf("%s: macro %q failed expanding %s: %v", e.Pos, e.Macro, e.Form, e.Cause)
}

func (e *MacroExpansionError) Unwrap() error { return e.Cause }

// ReadError reports a malformed s-expression: an unbalanced delimiter, an
// unterminated string or char literal, or a reader macro applied to nothing.
// Raised by internal/sexpr before the analyzer ever sees the form.
type ReadError struct {
	Pos Pos
	Msg string
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s: read error: %s", e.Pos, e.Msg)
}

// NamespaceError reports a duplicate namespace switch or a circular
// dependency detected by begin_load. Fatal.
type NamespaceError struct {
	Pos Pos
	NS  string
	Msg string
}

func (e *NamespaceError) Error() string {
	return fmt.Sprintf("%s: namespace error in %q: %s", e.Pos, e.NS, e.Msg)
}

// EmitterError reports unreachable IR or an unknown interop escape. The
// emitter still produces parseable output for it (a comment with a null
// stand-in, per §7) but the error is also surfaced to the caller.
type EmitterError struct {
	Pos  Pos
	Node string
	Msg  string
}

func (e *EmitterError) Error() string {
	return fmt.Sprintf("%s: emitter error: %s (%s)", e.Pos, e.Msg, e.Node)
}

// RuntimeError describes a Clojure-semantic failure raised by emitted code:
// arity mismatches, cast failures, STM retry exhaustion, validator
// rejection, unbound var. FnName identifies the offending var/function so
// the emitted exception message can name it, per §7.
type RuntimeError struct {
	Kind   string // "arity", "cast", "stm-retry", "validator", "unbound-var", ...
	FnName string
	Msg    string
}

func (e *RuntimeError) Error() string {
	if e.FnName != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.FnName, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}
