package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"

	"github.com/Black-And-White-Club/golf-handicap/config"
	"github.com/Black-And-White-Club/golf-handicap/internal/db/bundb"
)

func main() {
	cliApp := &cli.App{
		Name:  "bun",
		Usage: "golf-handicap database tooling",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Commands: []*cli.Command{
			newMigrateCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

type moduleMigrator struct {
	name     string
	migrator *migrate.Migrator
}

// withMigrators opens the database and runs fn with every module's migrator,
// in module name order.
func withMigrators(c *cli.Context, fn func(ctx context.Context, migrators []moduleMigrator) error) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := bundb.Open(c.Context, cfg.Postgres)
	if err != nil {
		return err
	}
	defer func(db *bun.DB) { _ = db.Close() }(db)

	byName := bundb.Migrators(db)
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	migrators := make([]moduleMigrator, 0, len(names))
	for _, name := range names {
		migrators = append(migrators, moduleMigrator{name: name, migrator: byName[name]})
	}
	return fn(c.Context, migrators)
}

// findMigrator picks the migrator named by the first argument.
func findMigrator(c *cli.Context, migrators []moduleMigrator) (*migrate.Migrator, string, error) {
	moduleName := c.Args().First()
	for _, m := range migrators {
		if m.name == moduleName {
			return m.migrator, moduleName, nil
		}
	}
	return nil, "", fmt.Errorf("invalid module name: %q", moduleName)
}

func newMigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(ctx context.Context, migrators []moduleMigrator) error {
						for _, m := range migrators {
							fmt.Printf("Initializing migrations for module: %s\n", m.name)
							if err := m.migrator.Init(ctx); err != nil {
								return fmt.Errorf("init %s: %w", m.name, err)
							}
						}
						return nil
					})
				},
			},
			{
				Name:  "migrate",
				Usage: "apply pending migrations",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(ctx context.Context, migrators []moduleMigrator) error {
						for _, m := range migrators {
							group, err := m.migrator.Migrate(ctx)
							if err != nil {
								return fmt.Errorf("migrate %s: %w", m.name, err)
							}
							if group.IsZero() {
								fmt.Printf("No new migrations to run for module: %s\n", m.name)
								continue
							}
							fmt.Printf("Migrated module %s to %s\n", m.name, group)
						}
						return nil
					})
				},
			},
			{
				Name:  "rollback",
				Usage: "roll back the last migration group",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(ctx context.Context, migrators []moduleMigrator) error {
						for _, m := range migrators {
							group, err := m.migrator.Rollback(ctx)
							if err != nil {
								return fmt.Errorf("rollback %s: %w", m.name, err)
							}
							if group.IsZero() {
								fmt.Printf("No groups to roll back for module: %s\n", m.name)
								continue
							}
							fmt.Printf("Rolled back module %s from %s\n", m.name, group)
						}
						return nil
					})
				},
			},
			{
				Name:      "create_sql",
				Usage:     "create up and down SQL migrations",
				ArgsUsage: "<module> <name...>",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(ctx context.Context, migrators []moduleMigrator) error {
						migrator, moduleName, err := findMigrator(c, migrators)
						if err != nil {
							return err
						}
						files, err := migrator.CreateSQLMigrations(ctx, strings.Join(c.Args().Tail(), "_"))
						if err != nil {
							return err
						}
						for _, mf := range files {
							fmt.Printf("Created migration for module %s: %s (%s)\n", moduleName, mf.Name, mf.Path)
						}
						return nil
					})
				},
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(ctx context.Context, migrators []moduleMigrator) error {
						for _, m := range migrators {
							ms, err := m.migrator.MigrationsWithStatus(ctx)
							if err != nil {
								return fmt.Errorf("status %s: %w", m.name, err)
							}
							fmt.Printf("Migrations for module: %s\n", m.name)
							fmt.Printf("  %s\n", ms)
							fmt.Printf("  Applied: %s\n", ms.Applied())
							fmt.Printf("  Unapplied: %s\n", ms.Unapplied())
						}
						return nil
					})
				},
			},
		},
	}
}
