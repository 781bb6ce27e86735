package store

import "context"

// Health is the database state reported by GET /health.
type Health struct {
	// SchemaVersion is nil when the migrations table cannot be read.
	SchemaVersion *uint
	SchemaDirty   bool
}

type HealthStore interface {
	// Check fails only when the database is unreachable.
	Check(ctx context.Context) (Health, error)
}
