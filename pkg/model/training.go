package model

import (
	"strings"
	"time"
)

type TrainingModule struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"uniqueIndex;not null" json:"title"`
	Description     string    `json:"description"`
	Content         string    `json:"content"`
	DurationMinutes int       `json:"duration_minutes"`
	RequiredRoles   string    `json:"required_roles"`
	Position        int       `json:"position"`
	IsPublished     bool      `json:"is_published"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (TrainingModule) TableName() string {
	return "training_modules"
}

// IsRequiredFor reports whether role must complete the module. An empty
// RequiredRoles list means everyone.
func (m *TrainingModule) IsRequiredFor(role Role) bool {
	if strings.TrimSpace(m.RequiredRoles) == "" {
		return true
	}
	for _, r := range strings.Split(m.RequiredRoles, ",") {
		if strings.TrimSpace(r) == role.String() {
			return true
		}
	}
	return false
}

type TrainingProgress struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null" json:"user_id"`
	ModuleID    uint           `gorm:"not null" json:"module_id"`
	Status      ProgressStatus `gorm:"type:text;not null" json:"status"`
	Progress    int            `json:"progress"`
	Score       *int           `json:"score,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (TrainingProgress) TableName() string {
	return "training_progress"
}

// Advance applies a new progress report. Progress is clamped to 0..100
// and a completed module stays completed.
func (p *TrainingProgress) Advance(progress int, score *int, now time.Time) {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	if score != nil {
		p.Score = score
	}
	if p.Status == ProgressStatusCompleted {
		return
	}

	p.Progress = progress
	switch {
	case progress == 100:
		p.Status = ProgressStatusCompleted
		p.CompletedAt = &now
	case progress > 0:
		p.Status = ProgressStatusInProgress
	default:
		p.Status = ProgressStatusNotStarted
	}
}
