// Package coll registers the persistent-collection contract (spec §4.5)
// into the shared runtime registry: vector, map, and set with structural
// sharing, plus transient builders for bulk construction.
package coll

import (
	_ "embed"

	"github.com/rubiojr/nettle/runtime"
)

//go:embed coll.cs
var source string

func init() {
	runtime.Register(&runtime.Unit{
		Name: "coll",
		Doc:  "Persistent vector/map/set with structural sharing and transient builders.",
		Source: source,
	})
}

// Source returns the embedded C# implementation, for callers (such as this
// package's tests) that want it without going through the registry lookup.
func Source() string { return source }
