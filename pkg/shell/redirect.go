package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Stream identifies which of the two writable streams a redirection binds.
type Stream int

const (
	// StreamStdout is file descriptor 1.
	StreamStdout Stream = 1
	// StreamStderr is file descriptor 2.
	StreamStderr Stream = 2
)

// Mode selects how a redirection target is opened.
type Mode int

const (
	// ModeTruncate opens the target for writing, discarding existing content.
	ModeTruncate Mode = iota
	// ModeAppend opens the target for writing, seeking to end.
	ModeAppend
)

// RedirectionSpec is a fully-resolved redirection: which stream, which
// mode, and which target file.
type RedirectionSpec struct {
	Stream Stream
	Mode   Mode
	Target string
}

// ErrMissingRedirectTarget is returned when a redirection operator appears
// with no following operand token.
var ErrMissingRedirectTarget = errors.New("missing target for redirection")

var redirectOperators = map[string]RedirectionSpec{
	">":   {Stream: StreamStdout, Mode: ModeTruncate},
	"1>":  {Stream: StreamStdout, Mode: ModeTruncate},
	">>":  {Stream: StreamStdout, Mode: ModeAppend},
	"1>>": {Stream: StreamStdout, Mode: ModeAppend},
	"2>":  {Stream: StreamStderr, Mode: ModeTruncate},
	"2>>": {Stream: StreamStderr, Mode: ModeAppend},
}

// ParsedCommand is the (argv, stdout-sink, stderr-sink) triple spec.md §3
// describes. A nil Stdout/Stderr means the stream inherits the shell's own.
type ParsedCommand struct {
	Argv   []string
	Stdout *RedirectionSpec
	Stderr *RedirectionSpec
}

// ParseRedirections walks tokens left to right, pulling out the six
// recognized redirection operators and their operand targets. Later
// occurrences for the same stream overwrite earlier ones. An operator with
// no following token is a syntax error.
func ParseRedirections(tokens []string) (ParsedCommand, error) {
	pc := ParsedCommand{Argv: make([]string, 0, len(tokens))}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		spec, isOp := redirectOperators[tok]
		if !isOp {
			pc.Argv = append(pc.Argv, tok)
			continue
		}

		if i == len(tokens)-1 {
			return ParsedCommand{}, fmt.Errorf("%w: '%s'", ErrMissingRedirectTarget, tok)
		}

		spec.Target = tokens[i+1]
		i++

		switch spec.Stream {
		case StreamStdout:
			pc.Stdout = &spec
		case StreamStderr:
			pc.Stderr = &spec
		}
	}

	return pc, nil
}

// IOBindings carries the three standard streams through builtin and
// external-command dispatch.
type IOBindings struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// openRedirectTarget opens spec.Target in the mode the spec demands,
// creating the parent directory first if it does not exist.
func openRedirectTarget(spec RedirectionSpec) (*os.File, error) {
	dir := filepath.Dir(spec.Target)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create parent directory for %s: %w", spec.Target, err)
		}
	}

	flag := os.O_CREATE | os.O_WRONLY
	if spec.Mode == ModeTruncate {
		flag |= os.O_TRUNC
	} else {
		flag |= os.O_APPEND
	}

	f, err := os.OpenFile(spec.Target, flag, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", spec.Target, err)
	}
	return f, nil
}

// BindRedirections opens the stdout/stderr redirection targets named in pc
// (if any) and returns I/O bindings derived from base with those streams
// substituted. Both targets, including a stderr target for a command that
// produces no error output, are opened before the caller returns — this is
// what gives stream-2 pre-creation its empty-file side effect. The
// returned cleanup must be called on every exit path, including failure.
func BindRedirections(log *logrus.Logger, pc ParsedCommand, base IOBindings) (IOBindings, func(), error) {
	bindings := base
	var opened []*os.File

	cleanup := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	if pc.Stdout != nil {
		f, err := openRedirectTarget(*pc.Stdout)
		if err != nil {
			cleanup()
			return base, nil, err
		}
		log.WithField("target", pc.Stdout.Target).Debug("opened stdout redirection")
		opened = append(opened, f)
		bindings.Stdout = f
	}

	if pc.Stderr != nil {
		f, err := openRedirectTarget(*pc.Stderr)
		if err != nil {
			cleanup()
			return base, nil, err
		}
		log.WithField("target", pc.Stderr.Target).Debug("opened stderr redirection")
		opened = append(opened, f)
		bindings.Stderr = f
	}

	return bindings, cleanup, nil
}
