package simulation

import "errors"

var (
	// ErrInvalidRun is returned when the total, the participant count or the
	// number of rounds is not positive.
	ErrInvalidRun = errors.New("simulation: total, participants and rounds must be greater than zero")

	// ErrOutOfRange is returned for totals or participant counts too large to draw.
	ErrOutOfRange = errors.New("simulation: input out of range")
)
