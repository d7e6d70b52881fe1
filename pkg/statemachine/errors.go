package statemachine

import (
	"errors"
	"fmt"
)

var (
	ErrNoSourceStates = errors.New("statemachine: transition needs at least one source state")
	ErrNoTransition   = errors.New("statemachine: no transition registered")
	ErrRejected       = errors.New("statemachine: transition rejected by guards")
)

// TransitionError records the state and event of a failed Fire.
// It matches ErrNoTransition or ErrRejected under errors.Is.
type TransitionError struct {
	From  string
	Event string
	cause error
}

func newTransitionError(cause error, from, event any) *TransitionError {
	return &TransitionError{From: fmt.Sprint(from), Event: fmt.Sprint(event), cause: cause}
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: state %q, event %q", e.cause, e.From, e.Event)
}

func (e *TransitionError) Unwrap() error { return e.cause }
