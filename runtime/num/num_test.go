package num

import (
	"testing"

	"github.com/rubiojr/nettle/runtime"
	"github.com/stretchr/testify/assert"
)

func TestRegistersNumUnit(t *testing.T) {
	u, ok := runtime.Get("num")
	assert.True(t, ok)
	assert.Equal(t, source, u.Source)
}

func TestEmbeddedSourceDeclaresArithmeticAndTruthiness(t *testing.T) {
	for _, want := range []string{"class RtNum", "class RtBool", "IsTruthy", "class RtErrors", "class RtException"} {
		assert.Contains(t, Source(), want)
	}
}
