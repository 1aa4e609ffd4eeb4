package engine

import "errors"

// Validation failures surfaced synchronously to the caller. Nothing in the
// engine is retried internally; storage contention is the caller's concern.
var (
	ErrInsufficientParticipants = errors.New("at least 2 participants are required")
	ErrInvalidSeedOrder         = errors.New("manual seed order must be a permutation of the participant list")
	ErrUnknownSeedPolicy        = errors.New("unknown seeding policy")
	ErrUnknownFormat            = errors.New("unknown competition format")

	ErrMatchNotFound           = errors.New("match not found")
	ErrInvalidWinner           = errors.New("winner is not a participant of this match")
	ErrAlreadyCompleted        = errors.New("match is already completed")
	ErrMatchCancelled          = errors.New("match is cancelled")
	ErrIndeterminateResult     = errors.New("scoreline does not determine a winner")
	ErrInconsistentProgression = errors.New("next match has no open slot to receive the winner")
	ErrInvalidSlot             = errors.New("slot must be 1 or 2")
)
