// Package ref registers the reference-type contract (spec §4.5/§5): Atom
// (lock-free CAS), Volatile (single-threaded, no CAS), Ref plus the
// LockingTransaction software transactional memory, and Delay.
package ref

import (
	_ "embed"

	"github.com/rubiojr/nettle/runtime"
)

//go:embed ref.cs
var source string

func init() {
	runtime.Register(&runtime.Unit{
		Name:   "ref",
		Doc:    "Atom, Volatile, Ref + LockingTransaction (STM), and Delay.",
		Source: source,
	})
}

func Source() string { return source }
