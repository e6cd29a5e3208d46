package script

import "errors"

// Errors for script execution.
var (
	// ErrStateClosed is returned when running a script on a closed host.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a script runs past its deadline.
	ErrExecutionTimeout = errors.New("lua execution timeout")
)
