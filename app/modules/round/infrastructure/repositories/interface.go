package rounddb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for round persistence. Every method takes an
// optional bun.IDB so callers can run it inside a transaction; nil uses the
// repository's own connection.
type Repository interface {
	// InsertRound stores a single round.
	InsertRound(ctx context.Context, db bun.IDB, round *Round) error

	// InsertRounds stores rounds in one statement.
	InsertRounds(ctx context.Context, db bun.IDB, rounds []*Round) error

	// ListRounds returns the owner's rounds, most recently played first.
	ListRounds(ctx context.Context, db bun.IDB, ownerID string) ([]*Round, error)

	// ListDifferentials returns the owner's differentials, oldest played first.
	ListDifferentials(ctx context.Context, db bun.IDB, ownerID string) ([]float64, error)

	// DeleteRoundsForOwner removes every round of the owner and returns how many went.
	DeleteRoundsForOwner(ctx context.Context, db bun.IDB, ownerID string) (int, error)
}
