package store

import (
	"context"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
)

// ActivityFilter narrows ListActivities.
type ActivityFilter struct {
	EntityType string
	UserID     *uint
	Page       Page
}

// ActivitiesStore abstracts the activity feed
type ActivitiesStore interface {
	Record(ctx context.Context, activity *model.Activity) error
	// ListActivities returns the newest entries first.
	ListActivities(ctx context.Context, filter ActivityFilter) ([]model.Activity, error)
}
