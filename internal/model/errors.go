package model

import (
	"errors"
	"fmt"
)

var (
	ErrIllegalMove        = errors.New("illegal move")
	ErrInvalidSquare      = errors.New("invalid square")
	ErrInvariantViolation = errors.New("invariant violation")
	ErrNoPieceSelected    = errors.New("no piece selected")
	ErrNotYourPiece       = errors.New("piece does not belong to the player in turn")
	ErrNoPendingPromotion = errors.New("no promotion pending")
	ErrPromotionPending   = errors.New("promotion choice pending")
	ErrViewingHistory     = errors.New("viewing history")
	ErrGameOver           = errors.New("game is over")
)

// InvariantViolation reports a state the rules can never produce, such as a
// missing king. It is raised with panic and must not be recovered silently.
type InvariantViolation struct {
	Reason string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvariantViolation, e.Reason)
}

func (e *InvariantViolation) Unwrap() error {
	return ErrInvariantViolation
}

func violate(format string, args ...any) {
	panic(&InvariantViolation{Reason: fmt.Sprintf(format, args...)})
}
