package system

import (
	"bytes"
	"io"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiveCommandRunner_ZeroExit(t *testing.T) {
	r := &LiveCommandRunner{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}

	code, err := r.Run("true")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestLiveCommandRunner_ReturnsExitCode(t *testing.T) {
	r := &LiveCommandRunner{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}

	code, err := r.Run("exit 7")
	require.NoError(t, err, "a non-zero exit is a result, not an error")
	assert.Equal(t, 7, code)
}

func TestLiveCommandRunner_WritesStdout(t *testing.T) {
	stdout := &bytes.Buffer{}
	r := &LiveCommandRunner{Stdout: stdout, Stderr: &bytes.Buffer{}}

	code, err := r.Run("echo hello")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "hello\n", stdout.String())
}

func TestLiveCommandRunner_RunsThroughShell(t *testing.T) {
	stdout := &bytes.Buffer{}
	r := &LiveCommandRunner{Stdout: stdout, Stderr: &bytes.Buffer{}}

	code, err := r.Run("echo a && echo b")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "a\nb\n", stdout.String())
}

func TestLiveCommandRunner_MissingBinaryIsStartFailure(t *testing.T) {
	r := &LiveCommandRunner{Stdout: io.Discard, Stderr: io.Discard}

	code, err := r.Run("definitely-not-a-real-binary-xyz --version")
	require.Error(t, err)
	assert.ErrorIs(t, err, exec.ErrNotFound)
	assert.Equal(t, 0, code)
}

func TestLiveCommandRunner_BuiltinExit127IsAnExitCode(t *testing.T) {
	r := &LiveCommandRunner{Stdout: io.Discard, Stderr: io.Discard}

	code, err := r.Run("exit 127")
	require.NoError(t, err)
	assert.Equal(t, 127, code)
}

func TestLiveCommandRunner_ResolvableCommandExit127IsAnExitCode(t *testing.T) {
	r := &LiveCommandRunner{Stdout: io.Discard, Stderr: io.Discard}

	code, err := r.Run("sh -c 'exit 127'")
	require.NoError(t, err)
	assert.Equal(t, 127, code)
}

func TestQuoteCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"plain args untouched", []string{"bazel", "build", "//..."}, "bazel build //..."},
		{"spaces preserved", []string{"echo", "a b"}, "echo 'a b'"},
		{"shell specials quoted", []string{"echo", "$HOME", "a;b"}, "echo '$HOME' 'a;b'"},
		{"single quotes escaped", []string{"echo", "it's"}, `echo 'it'"'"'s'`},
		{"empty arg kept", []string{"printf", ""}, "printf ''"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QuoteCommand(tt.args))
		})
	}
}

func TestQuoteCommand_BoundariesSurviveTheShell(t *testing.T) {
	stdout := &bytes.Buffer{}
	r := &LiveCommandRunner{Stdout: stdout, Stderr: &bytes.Buffer{}}

	code, err := r.Run(QuoteCommand([]string{"printf", "%s\n", "a b"}))
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "a b\n", stdout.String())
}
