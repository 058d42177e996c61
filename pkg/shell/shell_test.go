package shell

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestShell(t *testing.T, input string) (*Shell, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	sh := New(strings.NewReader(input), &out, &errOut, WithNoColor(true))
	return sh, &out, &errOut
}

func TestShell_EchoScenarios(t *testing.T) {
	t.Run("simple echo", func(t *testing.T) {
		sh, out, _ := newTestShell(t, "echo hello world\nexit\n")
		code, err := sh.Run()
		require.NoError(t, err)
		assert.Equal(t, 0, code)
		assert.Contains(t, out.String(), "hello world\n")
	})

	t.Run("quoting preserves internal spacing and escaped quote", func(t *testing.T) {
		sh, out, _ := newTestShell(t, `echo 'a  b'  "c\"d"`+"\nexit\n")
		_, err := sh.Run()
		require.NoError(t, err)
		assert.Contains(t, out.String(), "a  b c\"d\n")
	})

	t.Run("blank line produces no extra output", func(t *testing.T) {
		sh, out, _ := newTestShell(t, "\n   \nexit\n")
		_, err := sh.Run()
		require.NoError(t, err)
		assert.Equal(t, strings.Count(out.String(), "$ "), 3)
	})
}

func TestShell_Type(t *testing.T) {
	sh, out, errOut := newTestShell(t, "type echo\ntype nosuchcommand12345\nexit\n")
	_, err := sh.Run()
	require.NoError(t, err)
	assert.Contains(t, out.String(), "echo is a shell builtin\n")
	assert.Contains(t, errOut.String(), "nosuchcommand12345 not found\n")
}

func TestShell_Redirection(t *testing.T) {
	t.Run("truncate then truncate again overwrites", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "out.txt")

		sh, _, _ := newTestShell(t, "echo hi > "+target+"\npwd > "+target+"\nexit\n")
		_, err := sh.Run()
		require.NoError(t, err)

		content, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.NotContains(t, string(content), "hi")
	})

	t.Run("append accumulates across commands", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "log.txt")

		sh, _, _ := newTestShell(t, "echo one >> "+target+"\necho two >> "+target+"\nexit\n")
		_, err := sh.Run()
		require.NoError(t, err)

		content, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, "one\ntwo\n", string(content))
	})

	t.Run("unknown command with stderr redirect writes the diagnostic to the file", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "err.log")

		sh, _, _ := newTestShell(t, "definitelynotacommand 2> "+target+"\nexit\n")
		_, err := sh.Run()
		require.NoError(t, err)

		content, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, "definitelynotacommand: command not found\n", string(content))
	})
}

func TestShell_Exit(t *testing.T) {
	t.Run("bare exit is status 0", func(t *testing.T) {
		sh, _, _ := newTestShell(t, "exit\n")
		code, err := sh.Run()
		require.NoError(t, err)
		assert.Equal(t, 0, code)
	})

	t.Run("exit with argument", func(t *testing.T) {
		sh, _, _ := newTestShell(t, "exit 7\n")
		code, err := sh.Run()
		require.NoError(t, err)
		assert.Equal(t, 7, code)
	})

	t.Run("end of input without exit returns 0", func(t *testing.T) {
		sh, _, _ := newTestShell(t, "echo last line\n")
		code, err := sh.Run()
		require.NoError(t, err)
		assert.Equal(t, 0, code)
	})
}

func TestShell_Pwd_CdRoundTrip(t *testing.T) {
	start, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { os.Chdir(start) })

	dir := t.TempDir()
	sh, out, _ := newTestShell(t, "pwd\nexit\n")

	require.NoError(t, os.Chdir(dir))
	_, err = sh.Run()
	require.NoError(t, err)

	firstLine := strings.SplitN(out.String(), "\n", 2)[0]
	reportedDir := strings.TrimPrefix(firstLine, "$ ")

	sh2, _, errOut2 := newTestShell(t, "cd "+reportedDir+"\nexit\n")
	_, err = sh2.Run()
	require.NoError(t, err)
	assert.Empty(t, errOut2.String())

	after, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, reportedDir, after)
}

func TestShell_CdMissingDirectory(t *testing.T) {
	sh, _, errOut := newTestShell(t, "cd /no/such/directory/at/all\nexit\n")
	_, err := sh.Run()
	require.NoError(t, err)
	assert.Contains(t, errOut.String(), "cd: /no/such/directory/at/all: No such file or directory\n")
}

func TestShell_CdRejectsNonDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	sh, _, errOut := newTestShell(t, "cd "+file+"\nexit\n")
	_, err := sh.Run()
	require.NoError(t, err)
	assert.Contains(t, errOut.String(), "No such file or directory")
}

func TestShell_SyntaxErrorDoesNotTerminate(t *testing.T) {
	sh, out, errOut := newTestShell(t, "echo 'unclosed\necho still alive\nexit\n")
	_, err := sh.Run()
	require.NoError(t, err)
	assert.Contains(t, errOut.String(), "Syntax error")
	assert.Contains(t, out.String(), "still alive\n")
}

func TestShell_RunOnce(t *testing.T) {
	var out, errOut bytes.Buffer
	sh := New(strings.NewReader(""), &out, &errOut, WithNoColor(true))
	code := sh.RunOnce("echo from -c")
	assert.Equal(t, 0, code)
	assert.Equal(t, "from -c\n", out.String())
}
