package gorm

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/db"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

var _ store.HealthStore = (*HealthStore)(nil)

type HealthStore struct {
	db *gorm.DB
}

func NewHealthStore(db *gorm.DB) *HealthStore {
	return &HealthStore{db: db}
}

func (s *HealthStore) Check(ctx context.Context) (store.Health, error) {
	conn := withCtx(s.db, ctx)
	if err := conn.Exec("SELECT 1").Error; err != nil {
		return store.Health{}, err
	}

	var h store.Health
	var version uint
	row := conn.Raw(fmt.Sprintf("SELECT version, dirty FROM %s LIMIT 1", db.MigrationsTable)).Row()
	if err := row.Scan(&version, &h.SchemaDirty); err == nil {
		h.SchemaVersion = &version
	}
	return h, nil
}
