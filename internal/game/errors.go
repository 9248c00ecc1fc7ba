package game

import "errors"

var (
	// ErrInvalidBet indicates a bet that is not positive or exceeds the balance.
	ErrInvalidBet = errors.New("game: invalid bet")

	// ErrIllegalTransition indicates an operation called in the wrong phase.
	ErrIllegalTransition = errors.New("game: illegal transition")
)
