package roundservice

import "errors"

var (
	// ErrMissingOwner indicates an operation was called without an owner identity.
	ErrMissingOwner = errors.New("owner ID is required")

	// ErrNoRounds indicates an operation needs at least one stored round.
	ErrNoRounds = errors.New("no rounds recorded")
)
