// Package dispatch decides the final command line for a logical build
// command and executes it. The one decision it owns: append the
// remote-execution flag iff the credential marker file exists.
package dispatch

import (
	"fmt"
	"strings"

	"foreman/pkg/runner"
	"foreman/pkg/system"
)

// Dispatcher translates a base command into a concrete subprocess
// invocation. It is stateless; the credential check happens fresh on every
// call.
type Dispatcher struct {
	// CredentialPath is the marker file whose existence enables remote
	// execution. The content is opaque to the dispatcher.
	CredentialPath string
	// RemoteExecFlag is appended to the base command when the marker exists.
	RemoteExecFlag string
	Runner         runner.CommandRunner
}

// CommandLine returns the command line Dispatch would execute, without
// executing it.
func (d *Dispatcher) CommandLine(base string) (string, error) {
	if strings.TrimSpace(base) == "" {
		return "", fmt.Errorf("base command cannot be empty")
	}
	ok, err := system.HasCredential(d.CredentialPath)
	if err != nil {
		return "", fmt.Errorf("checking credential marker %s: %w", d.CredentialPath, err)
	}
	if ok && d.RemoteExecFlag != "" {
		return base + " " + d.RemoteExecFlag, nil
	}
	return base, nil
}

// Dispatch executes the decided command line and returns the subprocess's
// exit status unmodified. A non-zero status is also surfaced as a
// *NonZeroExitError so callers can propagate failure; a subprocess that
// could not be started yields a *ExecutionError.
func (d *Dispatcher) Dispatch(base string) (int, error) {
	command, err := d.CommandLine(base)
	if err != nil {
		return 0, err
	}

	code, err := d.Runner.Run(command)
	if err != nil {
		return 0, &ExecutionError{Command: command, Err: err}
	}
	if code != 0 {
		return code, &NonZeroExitError{Command: command, Code: code}
	}
	return 0, nil
}
