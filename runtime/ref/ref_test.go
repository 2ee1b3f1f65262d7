package ref

import (
	"testing"

	"github.com/rubiojr/nettle/runtime"
	"github.com/stretchr/testify/assert"
)

func TestRegistersRefUnit(t *testing.T) {
	u, ok := runtime.Get("ref")
	assert.True(t, ok)
	assert.Equal(t, source, u.Source)
}

func TestEmbeddedSourceDeclaresReferenceTypes(t *testing.T) {
	for _, want := range []string{"class Atom", "class RtVolatile", "class Delay", "class Ref", "class LockingTransaction"} {
		assert.Contains(t, Source(), want)
	}
}
