//go:build !embed_migrations

package main

import (
	"os"

	"github.com/golang-migrate/migrate/v4/source"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func migrationsDir() string {
	if dir := os.Getenv("AIACT_MIGRATIONS_PATH"); dir != "" {
		return dir
	}
	return "db/migrations"
}

// openMigrationSource reads migrations from AIACT_MIGRATIONS_PATH, or
// db/migrations relative to the working directory.
func openMigrationSource() (string, source.Driver, error) {
	drv, err := source.Open("file://" + migrationsDir())
	return "file", drv, err
}
