// Package agent registers the Agent contract (spec §4.5/§5): a queue of
// actions processed sequentially on a shared worker, with bounded `send`
// and unbounded `send-off` submission.
package agent

import (
	_ "embed"

	"github.com/rubiojr/nettle/runtime"
)

//go:embed agent.cs
var source string

func init() {
	runtime.Register(&runtime.Unit{
		Name:   "agent",
		Doc:    "Sequential single-consumer action queue with Fail/Continue error modes.",
		Source: source,
	})
}

func Source() string { return source }
