package gorm

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

var _ store.AssessmentsStore = (*AssessmentsStore)(nil)

// AssessmentsStore implements store.AssessmentsStore using GORM
type AssessmentsStore struct {
	db *gorm.DB
}

// NewAssessmentsStore creates a new AssessmentsStore
func NewAssessmentsStore(db *gorm.DB) *AssessmentsStore {
	return &AssessmentsStore{db: db}
}

func (s *AssessmentsStore) ListAssessments(ctx context.Context, filter store.AssessmentFilter) ([]model.RiskAssessment, error) {
	query := withCtx(s.db, ctx).Model(&model.RiskAssessment{})
	if filter.SystemID != nil {
		query = query.Where("system_id = ?", *filter.SystemID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var assessments []model.RiskAssessment
	tx := query.Scopes(paginate(filter.Page)).Order("created_at DESC, id DESC").Find(&assessments)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return assessments, nil
}

func (s *AssessmentsStore) GetAssessment(ctx context.Context, id uint) (*model.RiskAssessment, error) {
	var assessment model.RiskAssessment
	if err := first(s.db, ctx, &assessment, id); err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (s *AssessmentsStore) CreateAssessment(ctx context.Context, assessment *model.RiskAssessment) error {
	return translate(withCtx(s.db, ctx).Create(assessment).Error)
}

func (s *AssessmentsStore) UpdateAssessment(ctx context.Context, assessment *model.RiskAssessment) error {
	tx := withCtx(s.db, ctx).Model(&model.RiskAssessment{}).
		Where("id = ?", assessment.ID).
		Updates(map[string]interface{}{
			"assessor_id": assessment.AssessorID,
			"status":      assessment.Status,
			"risk_tier":   assessment.RiskTier,
			"score":       assessment.Score,
			"findings":    assessment.Findings,
			"mitigations": assessment.Mitigations,
		})
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *AssessmentsStore) DeleteAssessment(ctx context.Context, id uint) error {
	return deleteByID(s.db, ctx, &model.RiskAssessment{}, id)
}

func (s *AssessmentsStore) CompleteAssessment(ctx context.Context, id uint, completedAt time.Time, reviewMonths int) (*model.RiskAssessment, error) {
	var assessment model.RiskAssessment
	err := withCtx(s.db, ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&assessment, id).Error; err != nil {
			return translate(err)
		}
		if assessment.Status == model.AssessmentStatusCompleted {
			return store.ErrCompleted
		}

		nextReview := completedAt.AddDate(0, reviewMonths, 0)
		assessment.Status = model.AssessmentStatusCompleted
		assessment.CompletedAt = &completedAt
		assessment.NextReviewAt = &nextReview

		err := tx.Model(&model.RiskAssessment{}).
			Where("id = ?", assessment.ID).
			Updates(map[string]interface{}{
				"status":         assessment.Status,
				"completed_at":   completedAt,
				"next_review_at": nextReview,
			}).Error
		if err != nil {
			return err
		}

		if assessment.RiskTier == nil {
			return nil
		}
		return tx.Model(&model.AISystem{}).
			Where("id = ?", assessment.SystemID).
			Update("risk_tier", *assessment.RiskTier).Error
	})
	if err != nil {
		return nil, err
	}
	return &assessment, nil
}
