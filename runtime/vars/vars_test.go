package vars

import (
	"testing"

	"github.com/rubiojr/nettle/runtime"
	"github.com/stretchr/testify/assert"
)

func TestRegistersVarsUnit(t *testing.T) {
	u, ok := runtime.Get("vars")
	assert.True(t, ok)
	assert.Equal(t, source, u.Source)
}

func TestEmbeddedSourceDeclaresVarApi(t *testing.T) {
	for _, want := range []string{"class Var", "BindRoot", "Deref", "Invoke", "Find", "interface IFn"} {
		assert.Contains(t, Source(), want)
	}
}
