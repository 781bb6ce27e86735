package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/db"
)

var dbMigrateCmd = &cobra.Command{
	Use:     "migrate",
	Aliases: []string{"push"},
	Short:   "Create and/or upgrade the database schema",
	Long: `Create and/or upgrade the database schema.

Applies every pending migration. Migrations come from db/migrations
(override with AIACT_MIGRATIONS_PATH), or from the binary itself when
built with -tags embed_migrations.

Example:
  compliancectl db migrate`,
	Run: func(cmd *cobra.Command, args []string) {
		exitOnError("Migration failed", runMigrations())
	},
}

var dbMigrateDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Roll back database migrations",
	Long: `Roll back database migrations.

Example:
  compliancectl db down      # roll back 1 migration
  compliancectl db down 3    # roll back 3 migrations`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		steps := 1
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				exitOnError("Rollback failed", fmt.Errorf("steps must be a positive number, got %q", args[0]))
			}
			steps = n
		}
		exitOnError("Rollback failed", runMigrationsDown(steps))
	},
}

var dbMigrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current migration version",
	Run: func(cmd *cobra.Command, args []string) {
		exitOnError("Failed to get status", showMigrationStatus())
	},
}

func init() {
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbMigrateDownCmd)
	dbCmd.AddCommand(dbMigrateStatusCmd)
}

func migrationURL() (string, error) {
	url := db.URL()
	if url == "" {
		return "", fmt.Errorf("DATABASE_URL environment variable is required")
	}
	return db.MigrationURL(url), nil
}

func newMigrate() (*migrate.Migrate, error) {
	dbURL, err := migrationURL()
	if err != nil {
		return nil, err
	}
	name, src, err := openMigrationSource()
	if err != nil {
		return nil, fmt.Errorf("open migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance(name, src, dbURL)
	if err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("connect migrator: %w", err)
	}
	return m, nil
}

// withMigrate runs fn against a migrator and closes it afterwards.
func withMigrate(fn func(m *migrate.Migrate) error) error {
	m, err := newMigrate()
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()
	return fn(m)
}

func runMigrations() error {
	return withMigrate(func(m *migrate.Migrate) error {
		err := m.Up()
		switch {
		case errors.Is(err, migrate.ErrNoChange):
			fmt.Println("Schema is up to date")
			return nil
		case err != nil:
			return err
		}
		version, _, _ := m.Version()
		fmt.Printf("Schema migrated to version %d\n", version)
		return nil
	})
}

func runMigrationsDown(steps int) error {
	return withMigrate(func(m *migrate.Migrate) error {
		if err := m.Steps(-steps); err != nil {
			return err
		}
		version, _, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("Schema is empty")
			return nil
		}
		fmt.Printf("Schema rolled back to version %d\n", version)
		return nil
	})
}

func showMigrationStatus() error {
	return withMigrate(func(m *migrate.Migrate) error {
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			version, err = 0, nil
		}
		if err != nil {
			return err
		}
		pending, err := pendingMigrations(version)
		if err != nil {
			return err
		}

		fmt.Printf("Version: %d\n", version)
		fmt.Printf("Pending: %d\n", pending)
		if dirty {
			fmt.Fprintln(os.Stderr, "Warning: the last migration failed and left the schema dirty")
		}
		return nil
	})
}

// pendingMigrations counts source versions newer than current.
func pendingMigrations(current uint) (int, error) {
	_, src, err := openMigrationSource()
	if err != nil {
		return 0, err
	}
	defer func() { _ = src.Close() }()
	return countAfter(src, current)
}

func countAfter(src source.Driver, current uint) (int, error) {
	v, err := src.First()
	count := 0
	for err == nil {
		if v > current {
			count++
		}
		v, err = src.Next(v)
	}
	if errors.Is(err, os.ErrNotExist) {
		return count, nil
	}
	return count, err
}
