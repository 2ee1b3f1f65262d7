// Package config loads the project-level .nettlerc.yaml (SPEC_FULL §0):
// the codegen flavor, the BCL type-alias override table (spec.md §4.3's
// String→string table), and namespace import roots. Parsed with
// gopkg.in/yaml.v3, the same library the teacher's build already depends
// on for its own config-shaped data.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Flavor mirrors emit.Flavor without importing the emit package, so
// internal/config stays a leaf the CLI can load before an Emitter exists.
type Flavor string

const (
	FlavorDirect        Flavor = "direct"
	FlavorVarIndirected Flavor = "var-indirected"
)

// ImportRoot maps a Clojure namespace prefix to the C# assembly + using
// declaration that namespace resolves to (spec.md §6's "auxiliary
// namespace registry to synthesize correct `using` declarations").
type ImportRoot struct {
	Assembly string `yaml:"assembly"`
	Using    string `yaml:"using"`
}

// Config is the parsed shape of .nettlerc.yaml.
type Config struct {
	// Flavor selects direct vs. Var-indirected codegen (spec §4.4).
	Flavor Flavor `yaml:"flavor"`

	// TypeAliases overrides the default Clojure-type-hint-to-host-type
	// mapping, e.g. "String" -> "string", "Long" -> "long" (spec.md §4.3).
	TypeAliases map[string]string `yaml:"type-aliases"`

	// ImportRoots maps a namespace prefix ("System.Net") to the assembly
	// and using declaration the emitter's file prelude should synthesize
	// for any unit that references it.
	ImportRoots map[string]ImportRoot `yaml:"import-roots"`
}

// Default matches the conservative, zero-surprise behavior when no
// .nettlerc.yaml is present: Direct codegen (no indirection cost), the
// built-in BCL alias table (see DefaultTypeAliases), no extra import roots.
func Default() *Config {
	return &Config{
		Flavor:      FlavorDirect,
		TypeAliases: DefaultTypeAliases(),
		ImportRoots: map[string]ImportRoot{},
	}
}

// DefaultTypeAliases is spec.md §4.3's worked example table plus the
// handful of other primitive-alias pairs a .NET BCL mapping always needs.
func DefaultTypeAliases() map[string]string {
	return map[string]string{
		"String":  "string",
		"Long":    "long",
		"Int":     "int",
		"Double":  "double",
		"Float":   "float",
		"Boolean": "bool",
		"Object":  "object",
		"Decimal": "decimal",
	}
}

// Load reads and parses path. A missing file is not an error: it returns
// Default() so `nettlec` works with zero configuration, matching the
// teacher's own flag-defaults-over-required-config posture.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if cfg.TypeAliases == nil {
		cfg.TypeAliases = DefaultTypeAliases()
	}
	if cfg.ImportRoots == nil {
		cfg.ImportRoots = map[string]ImportRoot{}
	}
	if cfg.Flavor == "" {
		cfg.Flavor = FlavorDirect
	}
	return cfg, nil
}
