package roundmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	rounddb "github.com/Black-And-White-Club/golf-handicap/app/modules/round/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating rounds table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().Model((*rounddb.Round)(nil)).
				IfNotExists().
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create rounds table: %w", err)
			}

			if _, err := tx.NewCreateIndex().Model((*rounddb.Round)(nil)).
				Index("idx_rounds_owner_played_on").
				Column("owner_id", "played_on").
				IfNotExists().
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create rounds owner index: %w", err)
			}

			fmt.Println("Rounds table created successfully!")
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Rolling back rounds table...")

		if _, err := db.NewDropTable().Model((*rounddb.Round)(nil)).IfExists().Cascade().Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop rounds table: %w", err)
		}

		fmt.Println("Rounds table dropped successfully!")
		return nil
	})
}
