package gorm

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

var _ store.DashboardStore = (*DashboardStore)(nil)

const recentActivityLimit = 10

// DashboardStore implements store.DashboardStore using GORM
type DashboardStore struct {
	db *gorm.DB
}

// NewDashboardStore creates a new DashboardStore
func NewDashboardStore(db *gorm.DB) *DashboardStore {
	return &DashboardStore{db: db}
}

type tierCount struct {
	RiskTier *model.RiskTier
	Count    int64
}

type statusCount struct {
	Status model.SystemStatus
	Count  int64
}

func (s *DashboardStore) Stats(ctx context.Context, now time.Time) (*store.DashboardStats, error) {
	db := withCtx(s.db, ctx)
	stats := &store.DashboardStats{
		SystemsByTier:   map[string]int64{},
		SystemsByStatus: map[string]int64{},
	}

	var tiers []tierCount
	if err := db.Model(&model.AISystem{}).
		Select("risk_tier, COUNT(*) AS count").
		Group("risk_tier").
		Scan(&tiers).Error; err != nil {
		return nil, err
	}
	for _, t := range tiers {
		key := "unclassified"
		if t.RiskTier != nil {
			key = t.RiskTier.String()
		}
		stats.SystemsByTier[key] += t.Count
		stats.TotalSystems += t.Count
	}

	var statuses []statusCount
	if err := db.Model(&model.AISystem{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&statuses).Error; err != nil {
		return nil, err
	}
	for _, st := range statuses {
		stats.SystemsByStatus[st.Status.String()] = st.Count
	}

	counts := []struct {
		dest  *int64
		query func(*gorm.DB) *gorm.DB
	}{
		{&stats.TotalAssessments, func(tx *gorm.DB) *gorm.DB {
			return tx.Model(&model.RiskAssessment{})
		}},
		{&stats.CompletedAssessments, func(tx *gorm.DB) *gorm.DB {
			return tx.Model(&model.RiskAssessment{}).Where("status = ?", model.AssessmentStatusCompleted)
		}},
		{&stats.OverdueReviews, func(tx *gorm.DB) *gorm.DB {
			return tx.Model(&model.RiskAssessment{}).
				Where("status = ? AND next_review_at < ?", model.AssessmentStatusCompleted, now)
		}},
		{&stats.PendingApprovals, func(tx *gorm.DB) *gorm.DB {
			return tx.Model(&model.ApprovalItem{}).
				Where("status IN ?", []model.ApprovalStatus{model.ApprovalStatusPending, model.ApprovalStatusEscalated})
		}},
		{&stats.OverdueApprovals, func(tx *gorm.DB) *gorm.DB {
			return tx.Model(&model.ApprovalItem{}).
				Where("status IN ? AND due_at < ?",
					[]model.ApprovalStatus{model.ApprovalStatusPending, model.ApprovalStatusEscalated}, now)
		}},
	}
	for _, c := range counts {
		if err := c.query(db).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	var completed, expected int64
	if err := db.Model(&model.TrainingProgress{}).
		Where("status = ?", model.ProgressStatusCompleted).
		Where("module_id IN (SELECT id FROM training_modules WHERE is_published)").
		Count(&completed).Error; err != nil {
		return nil, err
	}
	if err := db.Raw(`
		SELECT (SELECT COUNT(*) FROM users WHERE is_active)
			* (SELECT COUNT(*) FROM training_modules WHERE is_published)
	`).Scan(&expected).Error; err != nil {
		return nil, err
	}
	stats.TrainingCompletionRate = completionRate(completed, expected)

	if err := db.Order("created_at DESC, id DESC").
		Limit(recentActivityLimit).
		Find(&stats.RecentActivities).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
