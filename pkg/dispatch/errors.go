package dispatch

import "fmt"

// ExecutionError reports that the subprocess could not be started at all.
// The exit status is meaningless in this case.
type ExecutionError struct {
	Command string
	Err     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("could not execute %q: %v", e.Command, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// NonZeroExitError reports that the subprocess ran and terminated
// unsuccessfully. Code carries the subprocess's exit status unmodified.
type NonZeroExitError struct {
	Command string
	Code    int
}

func (e *NonZeroExitError) Error() string {
	return fmt.Sprintf("command %q exited with code %d", e.Command, e.Code)
}
