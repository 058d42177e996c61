// Package shell implements a POSIX-subset interactive command shell: word
// splitting with quote/escape handling, redirection parsing, and dispatch
// between built-in commands and external programs found on PATH.
package shell

import "context"

// Parser tokenizes a raw input line into word tokens, resolving quoting
// and escape sequences. See DefaultParser for the concrete state machine.
type Parser interface {
	Parse(line string) ([]string, error)
}

// Executor runs an external (non-builtin) command with the given argv and
// I/O bindings, returning its exit code. ErrNotFound is returned when name
// cannot be resolved against the search path.
type Executor interface {
	Execute(ctx context.Context, name string, args []string, io IOBindings) (int, error)
}
