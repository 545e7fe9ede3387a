package probe

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is matched by every request validation failure.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrLaunch is matched when the runner process could not be started.
	ErrLaunch = errors.New("runner launch failed")
)

// ValidationError reports a rejected request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap lets errors.Is(err, ErrInvalidArgument) match.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidArgument
}

// LaunchError wraps the error returned while starting the runner.
type LaunchError struct {
	Runner string
	Err    error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch runner %q: %v", e.Runner, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// Is matches ErrLaunch in addition to the wrapped error chain.
func (e *LaunchError) Is(target error) bool {
	return target == ErrLaunch
}
