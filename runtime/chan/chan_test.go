package rtchan

import (
	"testing"

	"github.com/rubiojr/nettle/runtime"
	"github.com/stretchr/testify/assert"
)

func TestRegistersChanUnit(t *testing.T) {
	u, ok := runtime.Get("chan")
	assert.True(t, ok)
	assert.Equal(t, source, u.Source)
}

func TestEmbeddedSourceDeclaresChannelApi(t *testing.T) {
	for _, want := range []string{"class RtChannel", "Unbuffered()", "Buffered(", "Put(", "Take(", "Close("} {
		assert.Contains(t, Source(), want)
	}
}
