package store

import (
	"context"
	"time"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
)

// DashboardStats aggregates the register for the dashboard.
type DashboardStats struct {
	TotalSystems           int64            `json:"total_systems"`
	SystemsByTier          map[string]int64 `json:"systems_by_tier"`
	SystemsByStatus        map[string]int64 `json:"systems_by_status"`
	TotalAssessments       int64            `json:"total_assessments"`
	CompletedAssessments   int64            `json:"completed_assessments"`
	OverdueReviews         int64            `json:"overdue_reviews"`
	PendingApprovals       int64            `json:"pending_approvals"`
	OverdueApprovals       int64            `json:"overdue_approvals"`
	TrainingCompletionRate float64          `json:"training_completion_rate"`
	RecentActivities       []model.Activity `json:"recent_activities"`
}

// DashboardStore computes dashboard aggregates
type DashboardStore interface {
	Stats(ctx context.Context, now time.Time) (*DashboardStats, error)
}
