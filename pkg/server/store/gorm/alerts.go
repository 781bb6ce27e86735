package gorm

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

var _ store.AlertsStore = (*AlertsStore)(nil)

// AlertsStore derives compliance alerts with one query per alert kind.
type AlertsStore struct {
	db *gorm.DB
}

// NewAlertsStore creates a new AlertsStore
func NewAlertsStore(db *gorm.DB) *AlertsStore {
	return &AlertsStore{db: db}
}

func (s *AlertsStore) Alerts(ctx context.Context, now time.Time) ([]store.Alert, error) {
	db := withCtx(s.db, ctx)

	var alerts []store.Alert
	for _, derive := range []func(*gorm.DB, time.Time) ([]store.Alert, error){
		prohibitedSystems,
		missingAssessments,
		overdueReviews,
		overdueApprovals,
		unclassifiedSystems,
	} {
		found, err := derive(db, now)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, found...)
	}

	store.SortAlerts(alerts)
	return alerts, nil
}

func prohibitedSystems(db *gorm.DB, _ time.Time) ([]store.Alert, error) {
	var systems []model.AISystem
	err := db.Where("risk_tier = ? AND status <> ?", model.RiskTierUnacceptable, model.SystemStatusRetired).
		Order("id").Find(&systems).Error
	if err != nil {
		return nil, err
	}

	alerts := make([]store.Alert, 0, len(systems))
	for _, sys := range systems {
		alerts = append(alerts, store.Alert{
			Kind:       store.AlertProhibitedSystem,
			Severity:   store.SeverityCritical,
			Title:      "Prohibited AI practice",
			Message:    fmt.Sprintf("%s is classified as unacceptable risk and must be withdrawn", sys.Name),
			EntityType: model.EntitySystem,
			EntityID:   sys.ID,
			Since:      sys.UpdatedAt,
		})
	}
	return alerts, nil
}

func missingAssessments(db *gorm.DB, _ time.Time) ([]store.Alert, error) {
	var systems []model.AISystem
	err := db.Where("risk_tier = ?", model.RiskTierHigh).
		Where("NOT EXISTS (SELECT 1 FROM risk_assessments ra WHERE ra.system_id = ai_systems.id AND ra.status = ?)",
			model.AssessmentStatusCompleted).
		Order("id").Find(&systems).Error
	if err != nil {
		return nil, err
	}

	alerts := make([]store.Alert, 0, len(systems))
	for _, sys := range systems {
		alerts = append(alerts, store.Alert{
			Kind:       store.AlertMissingAssessment,
			Severity:   store.SeverityCritical,
			Title:      "Missing risk assessment",
			Message:    fmt.Sprintf("High-risk system %s has no completed risk assessment", sys.Name),
			EntityType: model.EntitySystem,
			EntityID:   sys.ID,
			Since:      sys.CreatedAt,
		})
	}
	return alerts, nil
}

type overdueReviewRow struct {
	ID           uint
	SystemID     uint
	SystemName   string
	NextReviewAt time.Time
}

func overdueReviews(db *gorm.DB, now time.Time) ([]store.Alert, error) {
	var rows []overdueReviewRow
	err := db.Raw(`
		SELECT ra.id, ra.system_id, s.name AS system_name, ra.next_review_at
		FROM risk_assessments ra
		JOIN ai_systems s ON s.id = ra.system_id
		WHERE ra.status = ? AND ra.next_review_at < ?
		AND NOT EXISTS (
			SELECT 1 FROM risk_assessments newer
			WHERE newer.system_id = ra.system_id
			AND newer.status = ?
			AND newer.completed_at > ra.completed_at
		)
		ORDER BY ra.next_review_at, ra.id
	`, model.AssessmentStatusCompleted, now, model.AssessmentStatusCompleted).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	alerts := make([]store.Alert, 0, len(rows))
	for _, row := range rows {
		alerts = append(alerts, store.Alert{
			Kind:       store.AlertOverdueReview,
			Severity:   store.SeverityHigh,
			Title:      "Risk assessment review overdue",
			Message:    fmt.Sprintf("Review of %s was due on %s", row.SystemName, row.NextReviewAt.Format("2006-01-02")),
			EntityType: model.EntityAssessment,
			EntityID:   row.ID,
			Since:      row.NextReviewAt,
		})
	}
	return alerts, nil
}

func overdueApprovals(db *gorm.DB, now time.Time) ([]store.Alert, error) {
	var items []model.ApprovalItem
	err := db.Where("status IN ? AND due_at < ?",
		[]model.ApprovalStatus{model.ApprovalStatusPending, model.ApprovalStatusEscalated}, now).
		Order("due_at, id").Find(&items).Error
	if err != nil {
		return nil, err
	}

	alerts := make([]store.Alert, 0, len(items))
	for _, item := range items {
		severity := store.SeverityMedium
		if item.Priority >= model.PriorityHigh {
			severity = store.SeverityCritical
		}
		alerts = append(alerts, store.Alert{
			Kind:       store.AlertOverdueApproval,
			Severity:   severity,
			Title:      "Approval overdue",
			Message:    fmt.Sprintf("%s (%s priority) was due on %s", item.Title, item.Priority, item.DueAt.Format("2006-01-02")),
			EntityType: model.EntityApproval,
			EntityID:   item.ID,
			Since:      *item.DueAt,
		})
	}
	return alerts, nil
}

func unclassifiedSystems(db *gorm.DB, _ time.Time) ([]store.Alert, error) {
	var systems []model.AISystem
	err := db.Where("risk_tier IS NULL AND status = ?", model.SystemStatusDeployed).
		Order("id").Find(&systems).Error
	if err != nil {
		return nil, err
	}

	alerts := make([]store.Alert, 0, len(systems))
	for _, sys := range systems {
		since := sys.CreatedAt
		if sys.DeployedAt != nil {
			since = *sys.DeployedAt
		}
		alerts = append(alerts, store.Alert{
			Kind:       store.AlertUnclassifiedSystem,
			Severity:   store.SeverityMedium,
			Title:      "Unclassified system in production",
			Message:    fmt.Sprintf("%s is deployed without a risk classification", sys.Name),
			EntityType: model.EntitySystem,
			EntityID:   sys.ID,
			Since:      since,
		})
	}
	return alerts, nil
}
