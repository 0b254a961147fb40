package script

import (
	"errors"
	"fmt"
)

// Errors returned by the engine.
var (
	// ErrClosed is returned when the engine has been closed.
	ErrClosed = errors.New("lua engine is closed")

	// ErrTimeout is returned when a run exceeds the engine timeout.
	ErrTimeout = errors.New("lua execution timeout")

	// ErrNoFunction is returned when a handler names an undefined function.
	ErrNoFunction = errors.New("lua function not defined")
)

// Error wraps a failure inside a named chunk or handler function.
type Error struct {
	Func string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("lua %s: %v", e.Func, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
