package model

import "time"

type RegulatoryTerm struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Term       string    `gorm:"uniqueIndex;not null" json:"term"`
	Definition string    `json:"definition"`
	Article    string    `json:"article,omitempty"`
	Category   string    `json:"category,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (RegulatoryTerm) TableName() string {
	return "regulatory_terms"
}
