package shell

import (
	"context"
	"errors"
	"os/exec"

	"github.com/sirupsen/logrus"
)

// ErrNotFound is returned when an executable cannot be resolved against
// the search path.
var ErrNotFound = errors.New("not found")

// DefaultExecutor runs external commands with os/exec, resolving argv[0]
// through LookupFunc first.
type DefaultExecutor struct {
	LookupFunc func(name string) (string, bool)
	Log        *logrus.Logger
}

// Execute looks up name, spawns it as a child process with argv[0] set to
// name itself (not the resolved path), binds io to the child's stdio, and
// waits synchronously for it to exit. The child's own stdin is always the
// shell's stdin, per spec: io.Stdin carries that through unmodified.
func (e *DefaultExecutor) Execute(ctx context.Context, name string, args []string, io IOBindings) (int, error) {
	path, ok := e.LookupFunc(name)
	if !ok {
		return -1, ErrNotFound
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Args = append([]string{name}, args...)
	cmd.Stdin = io.Stdin
	cmd.Stdout = io.Stdout
	cmd.Stderr = io.Stderr

	e.Log.WithFields(logrus.Fields{"name": name, "path": path}).Debug("spawning child process")

	err := cmd.Run()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		e.Log.WithFields(logrus.Fields{"name": name, "code": exitErr.ExitCode()}).Debug("child process exited")
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		e.Log.WithFields(logrus.Fields{"name": name, "error": err}).Debug("child process failed to start")
		return -1, nil
	}

	e.Log.WithField("name", name).Debug("child process exited 0")
	return 0, nil
}
