// Package chan registers the channel contract (spec §4.5): buffered and
// unbuffered async channels with put/take/close.
package rtchan

import (
	_ "embed"

	"github.com/rubiojr/nettle/runtime"
)

//go:embed chan.cs
var source string

func init() {
	runtime.Register(&runtime.Unit{
		Name:   "chan",
		Doc:    "Buffered/unbuffered async channels wrapping System.Threading.Channels.",
		Source: source,
	})
}

func Source() string { return source }
