package system

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"foreman/pkg/runner"
)

// CommandRunner runs a shell command line and reports its exit status.
// Re-exported from pkg/runner to keep call sites on one import.
type CommandRunner = runner.CommandRunner

// shNotFoundExit is the status sh reports when it cannot resolve the command.
const shNotFoundExit = 127

// LiveCommandRunner is an implementation of CommandRunner that runs commands
// on the live system through the shell. Output streams default to the
// process's own stdout/stderr so build output passes through untouched.
type LiveCommandRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes the given command line with `sh -c` and returns its exit code.
// A command the shell could not resolve never ran, so it is reported as a
// start failure rather than an exit status.
func (r *LiveCommandRunner) Run(command string) (int, error) {
	cmd := exec.Command("sh", "-c", command)
	cmd.Stdin = os.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code == shNotFoundExit && !commandResolves(command) {
			return 0, &exec.Error{Name: strings.Fields(command)[0], Err: exec.ErrNotFound}
		}
		return code, nil
	}
	if err != nil {
		// The shell itself could not be started.
		return 0, err
	}
	return 0, nil
}

// shBuiltins are resolved by sh itself; a PATH lookup cannot vouch for them.
var shBuiltins = map[string]bool{
	":": true, ".": true, "!": true, "[": true,
	"break": true, "case": true, "cd": true, "continue": true,
	"eval": true, "exec": true, "exit": true, "export": true,
	"for": true, "if": true, "read": true, "readonly": true,
	"return": true, "set": true, "shift": true, "source": true,
	"times": true, "trap": true, "ulimit": true, "umask": true,
	"unset": true, "until": true, "wait": true, "while": true,
}

// commandResolves reports whether the command line's leading word is
// something the shell can run: a builtin, shell syntax, or an executable
// found on PATH. Used to tell a genuine exit 127 apart from sh's
// command-not-found report.
func commandResolves(command string) bool {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return true
	}
	name := fields[0]
	if shBuiltins[name] || strings.ContainsAny(name, "=(){}$`\"'\\") {
		return true
	}
	_, err := exec.LookPath(name)
	return err == nil
}

// QuoteCommand joins argv-style arguments into one shell command line,
// quoting any argument the shell would otherwise re-split or expand.
func QuoteCommand(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = shellQuote(arg)
	}
	return strings.Join(quoted, " ")
}

func shellQuote(arg string) string {
	if arg != "" && !strings.ContainsAny(arg, " \t\n\"'\\$&|;<>(){}*?#~`!") {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'"'"'`) + "'"
}
