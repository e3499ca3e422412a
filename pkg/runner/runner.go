// Package runner defines the interface for command execution.
// This package exists to break import cycles between testing and system packages.
package runner

// CommandRunner runs a shell command line and reports its exit status.
// This allows for mocking in tests.
type CommandRunner interface {
	// Run executes the command through the shell. The returned error is
	// non-nil only when the subprocess could not be started; a process that
	// ran and failed is reported through the exit code instead.
	Run(command string) (int, error)
}
