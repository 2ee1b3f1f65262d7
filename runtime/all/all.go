// Package all blank-imports every runtime subpackage so registering the
// whole host runtime library is one import away for cmd/nettlec, instead
// of every caller having to remember the full subpackage list.
package all

import (
	_ "github.com/rubiojr/nettle/runtime/agent"
	_ "github.com/rubiojr/nettle/runtime/chan"
	_ "github.com/rubiojr/nettle/runtime/coll"
	_ "github.com/rubiojr/nettle/runtime/multi"
	_ "github.com/rubiojr/nettle/runtime/num"
	_ "github.com/rubiojr/nettle/runtime/ref"
	_ "github.com/rubiojr/nettle/runtime/seq"
	_ "github.com/rubiojr/nettle/runtime/vars"
)

// Namespace is the C# namespace every unit's embedded source declares
// itself into (Nettle.Runtime).
const Namespace = "Nettle.Runtime"
