package roundmigrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the round schema migrations.
var Migrations = migrate.NewMigrations()
