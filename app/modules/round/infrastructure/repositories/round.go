package rounddb

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new round repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// InsertRound stores a single round.
func (r *Impl) InsertRound(ctx context.Context, db bun.IDB, round *Round) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(round).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert round: %w", err)
	}
	return nil
}

// InsertRounds stores rounds in one statement.
func (r *Impl) InsertRounds(ctx context.Context, db bun.IDB, rounds []*Round) error {
	if len(rounds) == 0 {
		return nil
	}
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(&rounds).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert %d rounds: %w", len(rounds), err)
	}
	return nil
}

// ListRounds returns the owner's rounds, most recently played first.
func (r *Impl) ListRounds(ctx context.Context, db bun.IDB, ownerID string) ([]*Round, error) {
	db = r.resolveDB(db)
	var rounds []*Round
	err := db.NewSelect().
		Model(&rounds).
		Where("owner_id = ?", ownerID).
		Order("played_on DESC", "created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}
	return rounds, nil
}

// ListDifferentials returns the owner's differentials, oldest played first.
func (r *Impl) ListDifferentials(ctx context.Context, db bun.IDB, ownerID string) ([]float64, error) {
	db = r.resolveDB(db)
	var diffs []float64
	err := db.NewSelect().
		Model((*Round)(nil)).
		Column("differential").
		Where("owner_id = ?", ownerID).
		Order("played_on ASC", "created_at ASC").
		Scan(ctx, &diffs)
	if err != nil {
		return nil, fmt.Errorf("failed to list differentials: %w", err)
	}
	return diffs, nil
}

// DeleteRoundsForOwner removes every round of the owner and returns how many went.
func (r *Impl) DeleteRoundsForOwner(ctx context.Context, db bun.IDB, ownerID string) (int, error) {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*Round)(nil)).
		Where("owner_id = ?", ownerID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete rounds: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(rows), nil
}
