package reasoning

import (
	"errors"
	"fmt"
)

var (
	// ErrMaxTurnsExceeded indicates the model did not finish within the turn limit.
	ErrMaxTurnsExceeded = errors.New("max turns exceeded")
	// ErrNoTools indicates a Request without tools.
	ErrNoTools = errors.New("no tools registered")
	// ErrEmptyResponse indicates the model returned no choices.
	ErrEmptyResponse = errors.New("empty response from model")
)

// TurnLimitError is returned when the turn limit is reached. It carries the
// latest text the model produced, which may be empty.
type TurnLimitError struct {
	MaxTurns int
	Partial  string
}

func (e *TurnLimitError) Error() string {
	return fmt.Sprintf("%v (%d)", ErrMaxTurnsExceeded, e.MaxTurns)
}

func (e *TurnLimitError) Unwrap() error {
	return ErrMaxTurnsExceeded
}
