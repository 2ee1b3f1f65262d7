package seq

import (
	"testing"

	"github.com/rubiojr/nettle/runtime"
	"github.com/stretchr/testify/assert"
)

func TestRegistersSeqUnit(t *testing.T) {
	u, ok := runtime.Get("seq")
	assert.True(t, ok)
	assert.Equal(t, source, u.Source)
}

func TestEmbeddedSourceDeclaresSeqAndTransducerApi(t *testing.T) {
	for _, want := range []string{
		"interface ISeq", "class ChunkedCons", "class LazySeq", "class Reduced",
		"class Transducers", "RtSeq", "SliceFrom",
	} {
		assert.Contains(t, Source(), want)
	}
}
