package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, FlavorDirect, cfg.Flavor)
	assert.Equal(t, "string", cfg.TypeAliases["String"])
}

func TestLoadParsesFlavorAndAliases(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".nettlerc.yaml")
	src := "flavor: var-indirected\ntype-aliases:\n  String: string\n  BigInteger: System.Numerics.BigInteger\nimport-roots:\n  System.Net:\n    assembly: System.Net.Http\n    using: System.Net.Http\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, FlavorVarIndirected, cfg.Flavor)
	assert.Equal(t, "System.Numerics.BigInteger", cfg.TypeAliases["BigInteger"])
	assert.Equal(t, "System.Net.Http", cfg.ImportRoots["System.Net"].Assembly)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".nettlerc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("flavor: [unterminated\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
