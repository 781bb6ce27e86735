package store

import (
	"context"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
)

// ModuleSummary is the completion state of one published module.
type ModuleSummary struct {
	ModuleID       uint    `json:"module_id"`
	Title          string  `json:"title"`
	Started        int64   `json:"started"`
	Completed      int64   `json:"completed"`
	Users          int64   `json:"users"`
	CompletionRate float64 `json:"completion_rate"`
}

// TrainingStore abstracts training content and progress storage
type TrainingStore interface {
	// ListModules returns modules ordered by position. Drafts are only
	// included when includeDrafts is set.
	ListModules(ctx context.Context, includeDrafts bool) ([]model.TrainingModule, error)
	GetModule(ctx context.Context, id uint) (*model.TrainingModule, error)
	CreateModule(ctx context.Context, module *model.TrainingModule) error
	UpdateModule(ctx context.Context, module *model.TrainingModule) error
	DeleteModule(ctx context.Context, id uint) error

	// GetProgress returns ErrNotFound when the user never started the module.
	GetProgress(ctx context.Context, userID, moduleID uint) (*model.TrainingProgress, error)
	ListProgress(ctx context.Context, userID uint) ([]model.TrainingProgress, error)
	// SaveProgress inserts or updates the (user, module) progress row.
	SaveProgress(ctx context.Context, progress *model.TrainingProgress) error

	Summary(ctx context.Context) ([]ModuleSummary, error)
}
