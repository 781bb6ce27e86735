// Package db holds the SQL migrations, embedded for builds that cannot
// read db/migrations from disk.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
