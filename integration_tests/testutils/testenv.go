package testutils

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"

	"github.com/Black-And-White-Club/golf-handicap/config"
	"github.com/Black-And-White-Club/golf-handicap/integration_tests/containers"
	"github.com/Black-And-White-Club/golf-handicap/internal/db/bundb"
	"github.com/Black-And-White-Club/golf-handicap/internal/observability"
)

// TestEnvironment holds a migrated Postgres database for integration tests.
type TestEnvironment struct {
	Ctx         context.Context
	PgContainer *postgres.PostgresContainer
	DB          *bun.DB
}

// NewTestEnvironment starts Postgres, applies migrations and registers cleanup.
// The test is skipped in short mode or when no container runtime is available.
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	t.Cleanup(cancel)

	pgContainer, dsn, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = pgContainer.Terminate(context.Background()) })

	db, err := bundb.Open(ctx, config.PostgresConfig{DSN: dsn})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := bundb.Migrate(ctx, db, observability.NoOpLogger); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return &TestEnvironment{Ctx: ctx, PgContainer: pgContainer, DB: db}
}

// Reset removes every stored round.
func (env *TestEnvironment) Reset(t *testing.T) {
	t.Helper()
	if _, err := env.DB.ExecContext(env.Ctx, "TRUNCATE TABLE rounds"); err != nil {
		t.Fatalf("failed to truncate rounds: %v", err)
	}
}
