package coll

import (
	"testing"

	"github.com/rubiojr/nettle/runtime"
	"github.com/stretchr/testify/assert"
)

func TestRegistersCollUnit(t *testing.T) {
	u, ok := runtime.Get("coll")
	assert.True(t, ok)
	assert.Equal(t, source, u.Source)
}

func TestEmbeddedSourceDeclaresExpectedTypes(t *testing.T) {
	for _, want := range []string{"PersistentVector", "PersistentList", "PersistentHashMap", "PersistentHashSet", "TransientVector"} {
		assert.Contains(t, Source(), want)
	}
}
