package gorm

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

var _ store.APIKeysStore = (*APIKeysStore)(nil)

// APIKeysStore implements store.APIKeysStore using GORM. The handle must
// carry the data key cipher; the model hooks encrypt and decrypt.
type APIKeysStore struct {
	db *gorm.DB
}

// NewAPIKeysStore creates a new APIKeysStore
func NewAPIKeysStore(db *gorm.DB) *APIKeysStore {
	return &APIKeysStore{db: db}
}

func (s *APIKeysStore) ListKeys(ctx context.Context) ([]model.APIKey, error) {
	var keys []model.APIKey
	if err := withCtx(s.db, ctx).Order("provider, id").Find(&keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *APIKeysStore) ActiveKeys(ctx context.Context) ([]model.APIKey, error) {
	var keys []model.APIKey
	tx := withCtx(s.db, ctx).Where("is_active = ?", true).Order("provider, id").Find(&keys)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return keys, nil
}

func (s *APIKeysStore) GetKey(ctx context.Context, id uint) (*model.APIKey, error) {
	var key model.APIKey
	if err := first(s.db, ctx, &key, id); err != nil {
		return nil, err
	}
	return &key, nil
}

func (s *APIKeysStore) AddKey(ctx context.Context, key *model.APIKey) error {
	key.IsActive = true
	return translate(withCtx(s.db, ctx).Create(key).Error)
}

func (s *APIKeysStore) MarkUsed(ctx context.Context, id uint, at time.Time) error {
	return withCtx(s.db, ctx).Model(&model.APIKey{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"last_used_at":  at,
			"failure_count": 0,
			"last_error":    "",
		}).Error
}

func (s *APIKeysStore) RecordFailure(ctx context.Context, id uint, reason string) error {
	return withCtx(s.db, ctx).Model(&model.APIKey{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"failure_count": gorm.Expr("failure_count + 1"),
			"last_error":    reason,
		}).Error
}

func (s *APIKeysStore) Deactivate(ctx context.Context, id uint, reason string, at time.Time) error {
	tx := withCtx(s.db, ctx).Model(&model.APIKey{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"is_active":      false,
			"last_error":     reason,
			"deactivated_at": at,
			"updated_at":     at,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
