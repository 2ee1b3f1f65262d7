package ns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMangleNamespace(t *testing.T) {
	hostNS, class := MangleNamespace("foo-bar.baz")
	assert.Equal(t, "FooBar.Baz", hostNS)
	assert.Equal(t, "Baz", class)
}

func TestMangleNamespaceMainBecomesProgram(t *testing.T) {
	_, class := MangleNamespace("myapp.main")
	assert.Equal(t, "Program", class)
}

func TestBeginLoadDetectsCycle(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.BeginLoad("a"))
	require.NoError(t, r.BeginLoad("b"))
	err := r.BeginLoad("a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular dependency")
}

func TestEndLoadAllowsReload(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.BeginLoad("a"))
	r.EndLoad("a")
	require.NoError(t, r.BeginLoad("a"))
}

func TestSwitchToAndDefineVar(t *testing.T) {
	r := NewRegistry()
	n := r.SwitchTo("my.ns")
	assert.Equal(t, "my.ns", n.Name)

	r.DefineVar("foo", VarInfo{IsPublic: true})
	assert.True(t, n.Vars["foo"].IsPublic)
}

func TestAliasResolution(t *testing.T) {
	r := NewRegistry()
	r.SwitchTo("my.ns")
	r.AddAlias("str", "clojure.string")
	assert.Equal(t, "clojure.string", r.ResolveAlias("str"))
	assert.Equal(t, "unaliased.ns", r.ResolveAlias("unaliased.ns"))
}
