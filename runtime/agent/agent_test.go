package agent

import (
	"testing"

	"github.com/rubiojr/nettle/runtime"
	"github.com/stretchr/testify/assert"
)

func TestRegistersAgentUnit(t *testing.T) {
	u, ok := runtime.Get("agent")
	assert.True(t, ok)
	assert.Equal(t, source, u.Source)
}

func TestEmbeddedSourceDeclaresAgentApi(t *testing.T) {
	for _, want := range []string{"class Agent", "AgentErrorMode", "Send(", "SendOff(", "Await("} {
		assert.Contains(t, Source(), want)
	}
}
