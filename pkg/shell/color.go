package shell

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// isTerminal reports whether w is an *os.File attached to a terminal.
// Any other writer (a pipe, a redirected file, a bytes.Buffer in tests)
// reports false, which is what keeps colorized output out of the
// byte-for-byte comparisons spec.md §8 requires for redirected runs.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// writePrompt writes the two-byte prompt "$ ", bolded green when w is a
// terminal and color is enabled.
func writePrompt(w io.Writer, noColor bool) {
	if !noColor && isTerminal(w) {
		color.New(color.FgGreen, color.Bold).Fprint(w, "$ ")
		return
	}
	fmt.Fprint(w, "$ ")
}

// writeDiagnostic writes a single-line diagnostic to w, in red when w is a
// terminal and color is enabled.
func writeDiagnostic(w io.Writer, noColor bool, msg string) {
	if !noColor && isTerminal(w) {
		color.New(color.FgRed).Fprintln(w, msg)
		return
	}
	fmt.Fprintln(w, msg)
}
