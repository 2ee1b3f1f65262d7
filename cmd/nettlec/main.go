// Command nettlec is the nettle compiler's CLI entry point (spec §0):
// `run`, `build`, `emit`, and `repl-fragment` subcommands over internal/compiler.
// Grounded on rugo's main.go/cmd/cmd.go command layout — a urfave/cli/v3
// root command with an implicit `<file> => run <file>` shorthand and one
// subcommand per compiler.Compiler method — kept deliberately thin, since
// the CLI itself is an out-of-scope collaborator (spec.md's non-goals),
// not the compiler core.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/nettle/internal/compiler"
	"github.com/rubiojr/nettle/internal/config"
	"github.com/rubiojr/nettle/internal/diag"
)

var version = "v0.1.0"

func main() {
	diag.Init(os.Stderr)

	cmd := &cli.Command{
		Name:                   "nettlec",
		Usage:                  "A Clojure-dialect compiler targeting C#",
		Version:                version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to .nettlerc.yaml",
				Value: ".nettlerc.yaml",
			},
		},
		// Allow `nettlec script.nt` as shorthand for `nettlec run script.nt`.
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() > 0 && strings.HasSuffix(cmd.Args().First(), ".nt") {
				return runAction(ctx, cmd)
			}
			return cli.DefaultShowRootCommandHelp(cmd)
		},
		Commands: []*cli.Command{
			{
				Name:            "run",
				Usage:           "Compile and run a .nt file",
				ArgsUsage:       "<file.nt> [args...]",
				SkipFlagParsing: true,
				Action:          runAction,
			},
			{
				Name:      "build",
				Usage:     "Compile a .nt file to a published .NET build",
				ArgsUsage: "<file.nt>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory for the published build",
					},
				},
				Action: buildAction,
			},
			{
				Name:      "emit",
				Usage:     "Output the generated C# source code",
				ArgsUsage: "<file.nt>",
				Action:    emitAction,
			},
			{
				Name:      "repl-fragment",
				Usage:     "Emit a single expression as a free-standing C# fragment",
				ArgsUsage: "[source]",
				Action:    replFragmentAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		diag.Error(err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	return config.Load(cmd.String("config"))
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: nettlec run <file.nt> [args...]")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	c := compiler.New(cfg)
	return c.Run(cmd.Args().First(), cmd.Args().Tail()...)
}

func buildAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: nettlec build [-o output] <file.nt>")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	c := compiler.New(cfg)
	return c.Build(cmd.Args().First(), cmd.String("output"))
}

func emitAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: nettlec emit <file.nt>")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	c := compiler.New(cfg)
	src, err := c.Emit(cmd.Args().First())
	if err != nil {
		return err
	}
	fmt.Print(src)
	return nil
}

// replFragmentAction emits a single expression in REPL mode (spec §2's
// "parallel REPL pathway"): the expression comes from an argument, or from
// stdin when no argument is given (so a REPL driver can pipe one line at a
// time without spawning a process per fragment).
func replFragmentAction(ctx context.Context, cmd *cli.Command) error {
	var src string
	if cmd.NArg() > 0 {
		src = cmd.Args().First()
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		src = string(data)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	c := compiler.New(cfg)
	out, err := c.EmitFragment(src)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}
