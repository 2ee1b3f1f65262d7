// Package vars registers the Var contract (spec §4.5/§5): process-wide,
// concurrent-dictionary-backed interning by (namespace, name), with an
// atomic bind_root and a dispatching invoke.
package vars

import (
	_ "embed"

	"github.com/rubiojr/nettle/runtime"
)

//go:embed vars.cs
var source string

func init() {
	runtime.Register(&runtime.Unit{
		Name:   "vars",
		Doc:    "Globally interned Vars with atomic bind_root and dispatching invoke.",
		Source: source,
	})
}

func Source() string { return source }
