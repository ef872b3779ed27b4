package holdem

import "errors"

var (
	ErrHandEnded      = errors.New("hand already ended")
	ErrOutOfTurn      = errors.New("action out of turn")
	ErrHandInProgress = errors.New("hand in progress")
	ErrBetCapReached  = errors.New("fixed-limit bet cap reached for this street")
	ErrInvalidAmount  = errors.New("invalid bet amount")
	ErrInvalidAction  = errors.New("action not currently legal")
)

// InvalidStateError reports a programmer-error precondition failure
// inside the engine (never a player-facing rule violation).
type InvalidStateError string

func (e InvalidStateError) Error() string { return "invalid state: " + string(e) }

func ErrInvalidState(msg string) error { return InvalidStateError(msg) }

// InvariantError marks a fatal, hand-aborting invariant violation
// (§7: pot total mismatch, unknown player in hand). The table actor
// catches this at the top of its event loop, aborts the hand, and
// broadcasts an error to every participant instead of crashing.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string { return "invariant violation: " + e.Msg }
