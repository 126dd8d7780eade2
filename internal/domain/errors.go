package domain

import "errors"

var (
	// ErrInvalidSuit is returned when a command names an unknown suit.
	ErrInvalidSuit = errors.New("invalid suit")

	// ErrInvalidPrice is returned when an order price is out of domain.
	ErrInvalidPrice = errors.New("invalid price")

	// ErrUnknownPlayer is returned when a command references a player id
	// that never joined the game.
	ErrUnknownPlayer = errors.New("unknown player")

	// ErrGameFull is returned when a join would exceed capacity.
	ErrGameFull = errors.New("game is full")

	// ErrNotTrading is returned when an order arrives outside the
	// trading phase.
	ErrNotTrading = errors.New("game is not in the trading phase")

	// ErrUnknownCommand is returned for an unrecognized envelope type.
	ErrUnknownCommand = errors.New("unknown command type")

	// ErrInternal is reported when command processing fails unexpectedly.
	ErrInternal = errors.New("internal error")
)

// CommandError wraps a command-processing failure with the command type
// that caused it. It is surfaced to the offending player only.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return e.Command + ": " + e.Err.Error()
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
