//go:build embed_migrations

package main

import (
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	migrations "github.com/doodlesbykumbi/aiact-compliance/db"
)

func openMigrationSource() (string, source.Driver, error) {
	drv, err := iofs.New(migrations.Migrations, "migrations")
	return "iofs", drv, err
}
