// Package num registers the generic-arithmetic and truthiness contract
// (spec §4.5) and the shared RtException/RtErrors taxonomy emitted code
// throws into, since every other runtime unit (and the emitter's
// RtErrors.Arity call sites, see emit/fn.go) depends on it.
package num

import (
	_ "embed"

	"github.com/rubiojr/nettle/runtime"
)

//go:embed num.cs
var source string

func init() {
	runtime.Register(&runtime.Unit{
		Name:   "num",
		Doc:    "Generic arithmetic promotion lattice, structural equality, truthiness, and the runtime exception taxonomy.",
		Source: source,
	})
}

func Source() string { return source }
