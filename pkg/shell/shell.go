package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Shell is a single-threaded REPL: read a line, split it into word
// tokens, separate redirection operators from argv, then dispatch to a
// built-in or an external program. Instances are not safe for concurrent
// use.
type Shell struct {
	in       *bufio.Reader
	Out      io.Writer
	Err      io.Writer
	NoColor  bool
	Log      *logrus.Logger
	pathDirs []string
	builtins map[string]Builtin
	executor Executor
	parser   Parser
}

// Option configures a Shell at construction time.
type Option func(*Shell)

// WithLogger overrides the default (warn-level, stderr) logger.
func WithLogger(log *logrus.Logger) Option {
	return func(s *Shell) { s.Log = log }
}

// WithNoColor disables ANSI colorization of the prompt and diagnostics
// even when the relevant stream is a terminal.
func WithNoColor(noColor bool) Option {
	return func(s *Shell) { s.NoColor = noColor }
}

// New builds a Shell reading commands from reader and writing normal
// output / diagnostics to out / errw. PATH is captured once, at
// construction time; later changes to the environment variable do not
// affect this instance.
func New(reader io.Reader, out, errw io.Writer, opts ...Option) *Shell {
	s := &Shell{
		in:       bufio.NewReader(reader),
		Out:      out,
		Err:      errw,
		pathDirs: splitPath(os.Getenv("PATH")),
		builtins: registerBuiltins(),
	}

	s.Log = logrus.New()
	s.Log.SetOutput(os.Stderr)
	s.Log.SetLevel(logrus.WarnLevel)

	for _, opt := range opts {
		opt(s)
	}

	s.parser = NewDefaultParser()
	s.executor = &DefaultExecutor{LookupFunc: s.Lookup, Log: s.Log}

	return s
}

func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, string(os.PathListSeparator))
}

// Lookup searches pathDirs, in order, for a regular executable file named
// name. It returns the first match.
func (s *Shell) Lookup(name string) (string, bool) {
	for _, dir := range s.pathDirs {
		candidate := filepath.Join(dir, name)
		info, err := os.Stat(candidate)
		if err != nil {
			continue
		}
		if info.Mode().IsRegular() && info.Mode()&0o111 != 0 {
			return candidate, true
		}
	}
	return "", false
}

// Run starts the REPL: print "$ ", read a line, execute it, repeat. It
// returns the shell's exit status (the exit built-in's argument, or 0 on
// a graceful end-of-input) and a non-nil error only for a fatal I/O
// failure reading the input stream.
func (s *Shell) Run() (int, error) {
	for {
		writePrompt(s.Out, s.NoColor)

		line, err := s.in.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				if trimmed := strings.TrimSpace(line); trimmed != "" {
					if code, exit := s.dispatchLine(trimmed); exit {
						fmt.Fprintln(s.Out)
						return code, nil
					}
				}
				fmt.Fprintln(s.Out)
				return 0, nil
			}
			return 1, err
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if code, exit := s.dispatchLine(trimmed); exit {
			return code, nil
		}
	}
}

// RunOnce executes a single command line non-interactively (the `-c`
// path). It returns the status an exit builtin asked for, or 0 otherwise;
// an external command's own exit status is discarded, exactly as in the
// interactive loop. It shares dispatchLine with the
// interactive loop, so redirection, builtin dispatch and external
// execution behave identically either way.
func (s *Shell) RunOnce(line string) int {
	code, _ := s.dispatchLine(strings.TrimSpace(line))
	return code
}

// dispatchLine parses, binds redirections for, and executes one already
// trimmed, non-empty command line. exit is true only when a builtin
// (exit) asked the shell to terminate, in which case code is the status
// to return to the OS.
func (s *Shell) dispatchLine(line string) (code int, exit bool) {
	tokens, err := s.parser.Parse(line)
	if err != nil {
		writeDiagnostic(s.Err, s.NoColor, fmt.Sprintf("Syntax error: %v", err))
		return 0, false
	}
	if len(tokens) == 0 {
		return 0, false
	}

	parsed, err := ParseRedirections(tokens)
	if err != nil {
		writeDiagnostic(s.Err, s.NoColor, fmt.Sprintf("Syntax error: %v", err))
		return 0, false
	}
	if len(parsed.Argv) == 0 {
		writeDiagnostic(s.Err, s.NoColor, "Syntax error: missing command")
		return 0, false
	}

	base := IOBindings{Stdin: s.in, Stdout: s.Out, Stderr: s.Err}
	bindings, cleanup, err := BindRedirections(s.Log, parsed, base)
	if err != nil {
		writeDiagnostic(s.Err, s.NoColor, err.Error())
		return 0, false
	}
	defer cleanup()

	name := parsed.Argv[0]
	args := parsed.Argv[1:]

	if fn, ok := s.builtins[name]; ok {
		if err := fn(args, bindings, s); err != nil {
			var exitErr *ExitError
			if errors.As(err, &exitErr) {
				return exitErr.Code, true
			}
			writeDiagnostic(bindings.Stderr, s.NoColor, err.Error())
		}
		return 0, false
	}

	exitCode, err := s.executor.Execute(context.Background(), name, args, bindings)
	if errors.Is(err, ErrNotFound) {
		writeDiagnostic(bindings.Stderr, s.NoColor, name+": command not found")
		return 0, false
	}
	if err != nil {
		writeDiagnostic(bindings.Stderr, s.NoColor, fmt.Sprintf("error running %s: %v", name, err))
		return 0, false
	}

	_ = exitCode // the shell discards the child's own exit status, per spec.md §4.3
	return 0, false
}
