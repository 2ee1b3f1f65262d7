// Package multi registers the Multimethod contract (spec §4.5): dispatch
// by a user function, ancestor/isa resolution, prefer-edge tiebreaking,
// and a cached dispatch-value-to-method table.
package multi

import (
	_ "embed"

	"github.com/rubiojr/nettle/runtime"
)

//go:embed multi.cs
var source string

func init() {
	runtime.Register(&runtime.Unit{
		Name:   "multi",
		Doc:    "Multimethod: dispatch-function-driven method table with ancestor resolution and prefer edges.",
		Source: source,
	})
}

func Source() string { return source }
