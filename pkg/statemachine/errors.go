package statemachine

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition indicates a nil state or event was supplied.
var ErrInvalidTransition = errors.New("invalid transition: from, to, or event cannot be nil")

// ErrNoTransitionAvailable indicates no edge exists for the given
// state/event combination.
type ErrNoTransitionAvailable struct {
	StateName string
	EventName string
}

func (e *ErrNoTransitionAvailable) Error() string {
	return fmt.Sprintf("no transition available from state '%s' for event '%s'", e.StateName, e.EventName)
}

func NewErrNoTransitionAvailable(stateName, eventName string) *ErrNoTransitionAvailable {
	return &ErrNoTransitionAvailable{
		StateName: stateName,
		EventName: eventName,
	}
}

func IsNoTransitionAvailableError(err error) bool {
	var e *ErrNoTransitionAvailable
	return errors.As(err, &e)
}
