// Package macro implements the macro expander (spec §4.1): registers
// user-defined macros, expands macro calls to a fixed point, and owns the
// built-in expander forms (syntax-quote, defmacro registration).
package macro

import (
	"sync"

	"github.com/rubiojr/nettle/form"
	"github.com/rubiojr/nettle/internal/errs"
)

// Transform is a registered macro's expansion function. It receives the
// full call form (a *form.List headed by the macro's symbol) and returns
// the expansion.
type Transform func(call *form.List) (form.Form, error)

// Expander holds the set of user-registered macros for one compilation run.
// Like the namespace Registry, it is process-wide for the run and shared
// across files (spec §9).
type Expander struct {
	mu     sync.Mutex
	macros map[string]Transform
}

// NewExpander returns an Expander with no macros registered.
func NewExpander() *Expander {
	return &Expander{macros: make(map[string]Transform)}
}

// Register installs (or replaces) the transform for an unqualified macro
// name, as defmacro analysis does.
func (e *Expander) Register(name string, fn Transform) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.macros[name] = fn
}

// IsMacro reports whether a user macro is registered under this
// unqualified symbol name.
func (e *Expander) IsMacro(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.macros[name]
	return ok
}

func (e *Expander) lookup(name string) (Transform, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn, ok := e.macros[name]
	return fn, ok
}

// MacroexpandOnce applies the macro's transform once if f is a list headed
// by a registered macro symbol; otherwise it returns f unchanged. Qualified
// symbols (ns/name) are never treated as macros — only an unqualified head
// symbol can name one (spec §4.1).
func (e *Expander) MacroexpandOnce(f form.Form) (form.Form, error) {
	lst, ok := f.(*form.List)
	if !ok || len(lst.Items) == 0 {
		return f, nil
	}
	sym, ok := lst.Items[0].(*form.Symbol)
	if !ok || sym.NS != "" {
		return f, nil
	}
	fn, ok := e.lookup(sym.Name)
	if !ok {
		return f, nil
	}
	expanded, err := fn(lst)
	if err != nil {
		return nil, &errs.MacroExpansionError{Macro: sym.Name, Form: form.GoString(f), Cause: err}
	}
	return expanded, nil
}

// Macroexpand repeatedly applies MacroexpandOnce until a fixed point: the
// result no longer changes under one more expansion step.
func (e *Expander) Macroexpand(f form.Form) (form.Form, error) {
	for {
		next, err := e.MacroexpandOnce(f)
		if err != nil {
			return nil, err
		}
		if next == f {
			return next, nil
		}
		f = next
	}
}
