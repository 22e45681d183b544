package game

import "errors"

// Rule violations. They are returned to the caller and leave the game untouched.
var (
	ErrHandAlreadyEnded    = errors.New("hand already ended")
	ErrHandNotStarted      = errors.New("hand not started")
	ErrHandAlreadyStarted  = errors.New("hand already started")
	ErrHandInProgress      = errors.New("hand in progress")
	ErrRoundAlreadyEnded   = errors.New("betting round already ended")
	ErrRoundInProgress     = errors.New("betting round still in progress")
	ErrBelowMinimumBet     = errors.New("less than the minimum bet")
	ErrBelowMinimumRaise   = errors.New("raise must exceed the bet to call")
	ErrInsufficientPlayers = errors.New("not enough players")
	ErrNameTaken           = errors.New("name already taken")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrInvalidAction       = errors.New("invalid action")
)
