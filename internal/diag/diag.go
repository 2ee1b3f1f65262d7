// Package diag renders compiler diagnostics to stderr, colored via
// github.com/fatih/color when the output is a terminal and falling back to
// plain text otherwise. Grounded on aiseeq/glint's pkg/output/console.go
// (color.Color per severity, color.NoColor toggled for non-interactive
// output) and golang.org/x/term's IsTerminal check, a teacher dependency
// rugo's own test runner already uses the same way (cmd/cmd.go's no-color
// detection around term.IsTerminal(os.Stderr.Fd())).
package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow)
	okColor   = color.New(color.FgGreen, color.Bold)
)

// Init disables color when w is not a terminal, mirroring rugo's
// NO_COLOR/RUGO_FORCE_COLOR detection around a piped stderr.
func Init(w io.Writer) {
	if f, ok := w.(*os.File); ok {
		if os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(f.Fd())) {
			color.NoColor = true
		}
	}
}

// Error prints a fatal diagnostic to stderr.
func Error(err error) {
	errColor.Fprintf(os.Stderr, "error: ")
	fmt.Fprintf(os.Stderr, "%v\n", err)
}

// Warn prints a non-fatal diagnostic to stderr.
func Warn(msg string) {
	warnColor.Fprintf(os.Stderr, "warning: ")
	fmt.Fprintf(os.Stderr, "%s\n", msg)
}

// OK prints a success message to stderr.
func OK(msg string) {
	okColor.Fprintln(os.Stderr, msg)
}
