package multi

import (
	"testing"

	"github.com/rubiojr/nettle/runtime"
	"github.com/stretchr/testify/assert"
)

func TestRegistersMultiUnit(t *testing.T) {
	u, ok := runtime.Get("multi")
	assert.True(t, ok)
	assert.Equal(t, source, u.Source)
}

func TestEmbeddedSourceDeclaresMultimethodApi(t *testing.T) {
	for _, want := range []string{"class Multimethod", "class Hierarchy", "PreferMethod", "Isa("} {
		assert.Contains(t, Source(), want)
	}
}
