package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempSource(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "example.nt")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestCompileEmitsCsSource(t *testing.T) {
	path := writeTempSource(t, "(ns my.app)\n(defn greet [name] (str \"hi \" name))\n")
	result, err := New(nil).Compile(path)
	require.NoError(t, err)
	assert.Contains(t, result.CsSource, "class")
	assert.Equal(t, "my.app", result.Namespace)
	assert.False(t, result.IsTest)
}

func TestCompileDetectsTestUnit(t *testing.T) {
	path := writeTempSource(t, "(deftest sanity (is (= 1 1)))\n")
	result, err := New(nil).Compile(path)
	require.NoError(t, err)
	assert.True(t, result.IsTest)
}

func TestEmitFragmentUsesReplMode(t *testing.T) {
	out, err := New(nil).EmitFragment("(+ 1 2)")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestCompileMalformedSourceIsError(t *testing.T) {
	path := writeTempSource(t, "(foo bar\n")
	_, err := New(nil).Compile(path)
	assert.Error(t, err)
}

func TestCsprojContentVariesByTestMode(t *testing.T) {
	assert.Contains(t, csprojContent(true), "xunit")
	assert.NotContains(t, csprojContent(false), "xunit")
}
