// Package bundb opens the Postgres connection pool and applies schema migrations.
package bundb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	roundmigrations "github.com/Black-And-White-Club/golf-handicap/app/modules/round/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/golf-handicap/config"
)

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, cfg config.PostgresConfig) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
	if err := sqldb.PingContext(ctx); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

// Migrators returns one migrator per module, keyed by module name.
func Migrators(db *bun.DB) map[string]*migrate.Migrator {
	return map[string]*migrate.Migrator{
		"round": migrate.NewMigrator(db, roundmigrations.Migrations),
	}
}

// Migrate creates the migration tables if needed and applies pending migrations.
func Migrate(ctx context.Context, db *bun.DB, logger *slog.Logger) error {
	for name, migrator := range Migrators(db) {
		if err := migrator.Init(ctx); err != nil {
			return fmt.Errorf("failed to initialize %s migrations: %w", name, err)
		}
		group, err := migrator.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("failed to run %s migrations: %w", name, err)
		}
		if group.IsZero() {
			logger.InfoContext(ctx, "No new migrations", slog.String("module", name))
			continue
		}
		logger.InfoContext(ctx, "Applied migrations",
			slog.String("module", name),
			slog.String("group", group.String()),
		)
	}
	return nil
}
