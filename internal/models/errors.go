package models

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when a lifecycle operation is invoked
// while the session is in a state that forbids it.
var ErrInvalidTransition = errors.New("operation not allowed in the current session state")

// ErrAlreadyTerminal is returned when complete or stop is invoked on a
// session that already reached a terminal state.
var ErrAlreadyTerminal = errors.New("session is already finished")

// ValidationError reports malformed input. It is raised before any mutation,
// both at construction time and by the before-save hook, so an invalid
// session is never persisted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
