package model

import "time"

// AISystem is an AI system registered for compliance tracking.
type AISystem struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"uniqueIndex;not null" json:"name"`
	Description string       `json:"description"`
	Vendor      string       `json:"vendor"`
	Purpose     string       `json:"purpose"`
	Department  string       `json:"department"`
	UseCase     string       `json:"use_case"`
	OwnerID     *uint        `json:"owner_id,omitempty"`
	RiskTier    *RiskTier    `gorm:"type:text" json:"risk_tier"`
	Status      SystemStatus `gorm:"type:text;not null" json:"status"`
	DeployedAt  *time.Time   `json:"deployed_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (AISystem) TableName() string {
	return "ai_systems"
}

// IsHighRisk reports whether the system carries the high-risk obligations.
func (s *AISystem) IsHighRisk() bool {
	return s.RiskTier != nil && *s.RiskTier == RiskTierHigh
}
