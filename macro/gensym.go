package macro

import (
	"strings"

	"github.com/google/uuid"
)

// Gensym produces a symbol name guaranteed not to collide with any
// user-written identifier, for syntax-quote auto-gensym (`x#`) and for the
// fresh locals the `and`/`or`/`doto` desugaring introduces to avoid
// double-evaluating their target (spec §4.3).
//
// A UUID-derived suffix is used instead of a process-local counter so that
// independently compiled units can later be merged (e.g. by a future
// incremental build) without their gensyms colliding — spec.md's
// non-goals exclude a full hygiene system, but nothing stops the one
// mechanical collision-avoidance primitive hygiene would also need.
func Gensym(prefix string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "__" + suffix[:12]
}
