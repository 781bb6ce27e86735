package gorm

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

var _ store.TrainingStore = (*TrainingStore)(nil)

// TrainingStore implements store.TrainingStore using GORM
type TrainingStore struct {
	db *gorm.DB
}

// NewTrainingStore creates a new TrainingStore
func NewTrainingStore(db *gorm.DB) *TrainingStore {
	return &TrainingStore{db: db}
}

func (s *TrainingStore) ListModules(ctx context.Context, includeDrafts bool) ([]model.TrainingModule, error) {
	query := withCtx(s.db, ctx)
	if !includeDrafts {
		query = query.Where("is_published = ?", true)
	}

	var modules []model.TrainingModule
	if err := query.Order("position, id").Find(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

func (s *TrainingStore) GetModule(ctx context.Context, id uint) (*model.TrainingModule, error) {
	var module model.TrainingModule
	if err := first(s.db, ctx, &module, id); err != nil {
		return nil, err
	}
	return &module, nil
}

func (s *TrainingStore) CreateModule(ctx context.Context, module *model.TrainingModule) error {
	return translate(withCtx(s.db, ctx).Create(module).Error)
}

func (s *TrainingStore) UpdateModule(ctx context.Context, module *model.TrainingModule) error {
	tx := withCtx(s.db, ctx).Model(&model.TrainingModule{}).
		Where("id = ?", module.ID).
		Updates(map[string]interface{}{
			"title":            module.Title,
			"description":      module.Description,
			"content":          module.Content,
			"duration_minutes": module.DurationMinutes,
			"required_roles":   module.RequiredRoles,
			"position":         module.Position,
			"is_published":     module.IsPublished,
		})
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *TrainingStore) DeleteModule(ctx context.Context, id uint) error {
	return deleteByID(s.db, ctx, &model.TrainingModule{}, id)
}

func (s *TrainingStore) GetProgress(ctx context.Context, userID, moduleID uint) (*model.TrainingProgress, error) {
	var progress model.TrainingProgress
	tx := withCtx(s.db, ctx).
		Where("user_id = ? AND module_id = ?", userID, moduleID).
		First(&progress)
	if tx.Error != nil {
		return nil, translate(tx.Error)
	}
	return &progress, nil
}

func (s *TrainingStore) ListProgress(ctx context.Context, userID uint) ([]model.TrainingProgress, error) {
	var progress []model.TrainingProgress
	tx := withCtx(s.db, ctx).Where("user_id = ?", userID).Order("module_id").Find(&progress)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return progress, nil
}

// SaveProgress upserts on (user_id, module_id) so concurrent first reports
// for the same module do not fail.
func (s *TrainingStore) SaveProgress(ctx context.Context, progress *model.TrainingProgress) error {
	tx := withCtx(s.db, ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "module_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "progress", "score", "completed_at", "updated_at"}),
	}).Create(progress)
	return translate(tx.Error)
}

type moduleSummaryRow struct {
	ModuleID  uint
	Title     string
	Started   int64
	Completed int64
}

func (s *TrainingStore) Summary(ctx context.Context) ([]store.ModuleSummary, error) {
	db := withCtx(s.db, ctx)

	var users int64
	if err := db.Model(&model.User{}).Where("is_active = ?", true).Count(&users).Error; err != nil {
		return nil, err
	}

	var rows []moduleSummaryRow
	err := db.Raw(`
		SELECT m.id AS module_id, m.title,
			COUNT(p.id) AS started,
			COUNT(p.id) FILTER (WHERE p.status = ?) AS completed
		FROM training_modules m
		LEFT JOIN training_progress p ON p.module_id = m.id
		WHERE m.is_published
		GROUP BY m.id, m.title, m.position
		ORDER BY m.position, m.id
	`, model.ProgressStatusCompleted).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]store.ModuleSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, store.ModuleSummary{
			ModuleID:       row.ModuleID,
			Title:          row.Title,
			Started:        row.Started,
			Completed:      row.Completed,
			Users:          users,
			CompletionRate: completionRate(row.Completed, users),
		})
	}
	return summaries, nil
}

// completionRate is a percentage rounded to one decimal.
func completionRate(completed, users int64) float64 {
	if users <= 0 {
		return 0
	}
	rate := float64(completed) * 100 / float64(users)
	if rate > 100 {
		rate = 100
	}
	return float64(int64(rate*10+0.5)) / 10
}
