package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

var _ store.ActivitiesStore = (*ActivitiesStore)(nil)

// ActivitiesStore implements store.ActivitiesStore using GORM
type ActivitiesStore struct {
	db *gorm.DB
}

// NewActivitiesStore creates a new ActivitiesStore
func NewActivitiesStore(db *gorm.DB) *ActivitiesStore {
	return &ActivitiesStore{db: db}
}

func (s *ActivitiesStore) Record(ctx context.Context, activity *model.Activity) error {
	return withCtx(s.db, ctx).Create(activity).Error
}

func (s *ActivitiesStore) ListActivities(ctx context.Context, filter store.ActivityFilter) ([]model.Activity, error) {
	query := withCtx(s.db, ctx).Model(&model.Activity{})
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	var activities []model.Activity
	tx := query.Scopes(paginate(filter.Page)).Order("created_at DESC, id DESC").Find(&activities)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return activities, nil
}
