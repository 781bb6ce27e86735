package model

import "time"

type RiskAssessment struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	SystemID     uint             `gorm:"not null;index" json:"system_id"`
	AssessorID   *uint            `json:"assessor_id,omitempty"`
	Status       AssessmentStatus `gorm:"type:text;not null" json:"status"`
	RiskTier     *RiskTier        `gorm:"type:text" json:"risk_tier"`
	Score        int              `json:"score"`
	Findings     string           `json:"findings"`
	Mitigations  string           `json:"mitigations"`
	CompletedAt  *time.Time       `json:"completed_at,omitempty"`
	NextReviewAt *time.Time       `json:"next_review_at,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func (RiskAssessment) TableName() string {
	return "risk_assessments"
}
