package command

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCommand is returned when the first token names no command.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrQuit is returned by the quit command to end the session.
	ErrQuit = errors.New("quit")

	// ErrReported marks a failure whose message has already reached the user.
	ErrReported = errors.New("command failed")
)

// UsageError reports invalid flags or arguments. It is raised before any
// cluster request is made.
type UsageError struct {
	Command string
	Err     error
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

func usageErrorf(cmd, format string, args ...any) error {
	return &UsageError{Command: cmd, Err: fmt.Errorf(format, args...)}
}
