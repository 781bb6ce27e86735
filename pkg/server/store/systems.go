package store

import (
	"context"
	"time"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
)

// SystemFilter narrows ListSystems. Nil fields do not filter.
type SystemFilter struct {
	RiskTier *model.RiskTier
	// Unclassified selects systems without a tier; it overrides RiskTier.
	Unclassified bool
	Status       *model.SystemStatus
	Search       string
	Page         Page
}

// SystemsStore abstracts the AI system register
type SystemsStore interface {
	ListSystems(ctx context.Context, filter SystemFilter) ([]model.AISystem, error)
	GetSystem(ctx context.Context, id uint) (*model.AISystem, error)
	CreateSystem(ctx context.Context, system *model.AISystem) error
	UpdateSystem(ctx context.Context, system *model.AISystem) error
	// DeleteSystem removes the system together with its assessments.
	DeleteSystem(ctx context.Context, id uint) error
	SetRiskTier(ctx context.Context, id uint, tier model.RiskTier) error
}

// AssessmentFilter narrows ListAssessments. Nil fields do not filter.
type AssessmentFilter struct {
	SystemID *uint
	Status   *model.AssessmentStatus
	Page     Page
}

// AssessmentsStore abstracts risk assessment storage
type AssessmentsStore interface {
	ListAssessments(ctx context.Context, filter AssessmentFilter) ([]model.RiskAssessment, error)
	GetAssessment(ctx context.Context, id uint) (*model.RiskAssessment, error)
	CreateAssessment(ctx context.Context, assessment *model.RiskAssessment) error
	UpdateAssessment(ctx context.Context, assessment *model.RiskAssessment) error
	DeleteAssessment(ctx context.Context, id uint) error

	// CompleteAssessment marks the assessment completed at completedAt,
	// schedules the next review reviewMonths later and copies its risk
	// tier, when set, to the assessed system. A completed assessment
	// yields ErrCompleted and is left unchanged.
	CompleteAssessment(ctx context.Context, id uint, completedAt time.Time, reviewMonths int) (*model.RiskAssessment, error)
}
