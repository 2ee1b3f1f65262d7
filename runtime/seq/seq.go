// Package seq registers the lazy/chunked sequence and transducer contract
// (spec §4.5): the Seq interface, ChunkedCons, and the stepping-function
// family every `+map`/`+filter`/... transducer arity produces.
package seq

import (
	_ "embed"

	"github.com/rubiojr/nettle/runtime"
)

//go:embed seq.cs
var source string

func init() {
	runtime.Register(&runtime.Unit{
		Name:   "seq",
		Doc:    "Lazy/chunked Seq plus the transducer stepping-function family and Reduced.",
		Source: source,
	})
}

func Source() string { return source }
