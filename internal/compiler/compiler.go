// Package compiler orchestrates the full pipeline — reader, macro expander,
// namespace manager, analyzer, emitter, runtime assembly — behind the same
// Compile/Run/Build/Emit shape rugo/compiler.Compiler exposes, so cmd/nettlec
// stays as thin over this package as rugo/cmd is over rugo/compiler.
package compiler

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rubiojr/nettle/analyze"
	"github.com/rubiojr/nettle/emit"
	"github.com/rubiojr/nettle/internal/config"
	"github.com/rubiojr/nettle/internal/sexpr"
	"github.com/rubiojr/nettle/macro"
	"github.com/rubiojr/nettle/ns"
	"github.com/rubiojr/nettle/runtime"
	_ "github.com/rubiojr/nettle/runtime/all"
)

// ownCoreNS is the dialect's own core namespace, stripped by the analyzer's
// symbol resolution rule 1 alongside clojure.core/cljs.core.
const ownCoreNS = "nettle.core"

// Compiler orchestrates one compilation run. A single Compiler's NS/Macros
// are shared across every file it compiles in that run (spec §9), mirroring
// rugo/compiler.Compiler's single loaded/imports maps per run.
type Compiler struct {
	Config *config.Config

	ns     *ns.Registry
	macros *macro.Expander
}

// New returns a Compiler configured by cfg. A nil cfg uses config.Default().
func New(cfg *config.Config) *Compiler {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Compiler{Config: cfg, ns: ns.NewRegistry(), macros: macro.NewExpander()}
}

// CompileResult holds one file's emitted output.
type CompileResult struct {
	CsSource   string
	Namespace  string
	ClassName  string
	IsTest     bool
	SourceFile string
}

func (c *Compiler) flavor() emit.Flavor {
	if c.Config.Flavor == config.FlavorVarIndirected {
		return emit.VarIndirected
	}
	return emit.Direct
}

// Compile reads, expands, analyzes, and emits one .nt file to C# source.
func (c *Compiler) Compile(filename string) (*CompileResult, error) {
	return c.compile(filename, emit.FileMode)
}

func (c *Compiler) compile(filename string, mode emit.Mode) (*CompileResult, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}

	forms, err := sexpr.New(src, filename).ReadAll()
	if err != nil {
		return nil, err
	}

	an := analyze.NewAnalyzer(c.ns, c.macros, ownCoreNS)
	unit, err := an.AnalyzeFile(forms)
	if err != nil {
		return nil, err
	}

	e := &emit.Emitter{Flavor: c.flavor(), Mode: mode, NSExport: c.ns.Export()}
	f, err := e.EmitUnit(unit)
	if err != nil {
		return nil, err
	}

	return &CompileResult{
		CsSource:   emit.PrintFile(f),
		Namespace:  f.Namespace,
		ClassName:  f.ClassName,
		IsTest:     f.IsTest,
		SourceFile: filename,
	}, nil
}

// Emit compiles filename and returns the generated C# source text, the
// `emit` subcommand's job.
func (c *Compiler) Emit(filename string) (string, error) {
	result, err := c.Compile(filename)
	if err != nil {
		return "", err
	}
	return result.CsSource, nil
}

// EmitFragment compiles a single free-standing expression in REPL mode
// (spec §2's "parallel REPL pathway"), reading src as an in-memory unit
// instead of a file on disk.
func (c *Compiler) EmitFragment(src string) (string, error) {
	forms, err := sexpr.New([]byte(src), "<repl>").ReadAll()
	if err != nil {
		return "", err
	}
	an := analyze.NewAnalyzer(c.ns, c.macros, ownCoreNS)
	unit, err := an.AnalyzeFile(forms)
	if err != nil {
		return "", err
	}
	e := &emit.Emitter{Flavor: c.flavor(), Mode: emit.ReplMode, NSExport: c.ns.Export()}
	f, err := e.EmitUnit(unit)
	if err != nil {
		return "", err
	}
	return emit.PrintFile(f), nil
}

// scaffoldProject writes the generated source plus the full runtime
// library into dir as a minimal dotnet project, mirroring rugo/compiler's
// Run/Build writing main.go + go.mod into a temp directory before shelling
// out to the host toolchain.
func (c *Compiler) scaffoldProject(dir string, result *CompileResult) error {
	csFile := filepath.Join(dir, "Program.cs")
	if err := os.WriteFile(csFile, []byte(result.CsSource), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", csFile, err)
	}

	runtimeFile := filepath.Join(dir, "NettleRuntime.g.cs")
	runtimeSrc := runtime.All()
	if err := os.WriteFile(runtimeFile, []byte(runtimeSrc), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", runtimeFile, err)
	}

	proj := csprojContent(result.IsTest)
	projFile := filepath.Join(dir, "nettle_program.csproj")
	if err := os.WriteFile(projFile, []byte(proj), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", projFile, err)
	}
	return nil
}

func csprojContent(isTest bool) string {
	var sb strings.Builder
	sb.WriteString("<Project Sdk=\"Microsoft.NET.Sdk\">\n\n")
	sb.WriteString("  <PropertyGroup>\n")
	if isTest {
		sb.WriteString("    <IsPackable>false</IsPackable>\n")
	} else {
		sb.WriteString("    <OutputType>Exe</OutputType>\n")
	}
	sb.WriteString("    <TargetFramework>net8.0</TargetFramework>\n")
	sb.WriteString("    <Nullable>enable</Nullable>\n")
	sb.WriteString("    <ImplicitUsings>enable</ImplicitUsings>\n")
	sb.WriteString("  </PropertyGroup>\n\n")
	sb.WriteString("  <ItemGroup>\n")
	sb.WriteString("    <PackageReference Include=\"System.Collections.Immutable\" Version=\"8.0.0\" />\n")
	if isTest {
		sb.WriteString("    <PackageReference Include=\"xunit\" Version=\"2.9.2\" />\n")
		sb.WriteString("    <PackageReference Include=\"xunit.runner.visualstudio\" Version=\"2.8.2\" />\n")
	}
	sb.WriteString("  </ItemGroup>\n\n")
	sb.WriteString("</Project>\n")
	return sb.String()
}

// Run compiles filename and shells out to `dotnet run` against a scaffolded
// temp project, passing extraArgs to the generated program. Grounded on
// rugo/compiler.Compiler.Run's compile-to-temp-dir-then-exec shape, with
// `go build`+binary replaced by `dotnet run` since the host toolchain here
// is the .NET SDK, not the Go one.
func (c *Compiler) Run(filename string, extraArgs ...string) error {
	result, err := c.compile(filename, emit.FileMode)
	if err != nil {
		return err
	}

	tmpDir, err := os.MkdirTemp("", "nettle-*")
	if err != nil {
		return fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	if err := c.scaffoldProject(tmpDir, result); err != nil {
		return err
	}

	args := append([]string{"run", "--project", tmpDir, "--"}, extraArgs...)
	cmd := exec.Command("dotnet", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			os.Exit(exitErr.ExitCode())
		}
		return err
	}
	return nil
}

// Build compiles filename and publishes a self-contained build into output
// (a directory, per `dotnet publish` convention), mirroring rugo/compiler.
// Compiler.Build's "go build -o output" shape.
func (c *Compiler) Build(filename, output string) error {
	result, err := c.compile(filename, emit.FileMode)
	if err != nil {
		return err
	}

	tmpDir, err := os.MkdirTemp("", "nettle-*")
	if err != nil {
		return fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	if err := c.scaffoldProject(tmpDir, result); err != nil {
		return err
	}

	if output == "" {
		base := filepath.Base(filename)
		output = strings.TrimSuffix(base, filepath.Ext(base))
	}
	absOutput, err := filepath.Abs(output)
	if err != nil {
		return fmt.Errorf("resolving output path: %w", err)
	}

	cmd := exec.Command("dotnet", "publish", "--project", tmpDir, "-c", "Release", "-o", absOutput)
	cmd.Stdout = os.Stdout
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("building %s: %w\n%s", result.SourceFile, err, stderr.String())
	}
	return nil
}
