package model

import "time"

// Activity is an entry of the user-facing activity feed.
type Activity struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      *uint     `json:"user_id,omitempty"`
	Action      string    `gorm:"not null" json:"action"`
	EntityType  string    `gorm:"not null" json:"entity_type"`
	EntityID    *uint     `json:"entity_id,omitempty"`
	Description string    `json:"description"`
	Metadata    Metadata  `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Activity) TableName() string {
	return "activities"
}

// Entity types recorded in the activity feed.
const (
	EntityUser       = "user"
	EntitySystem     = "system"
	EntityAssessment = "assessment"
	EntityTraining   = "training_module"
	EntityApproval   = "approval"
	EntityAPIKey     = "api_key"
	EntityTerm       = "term"
)

// NewActivity builds a feed entry. userID and entityID may be zero for
// system actions and entity-less entries.
func NewActivity(userID uint, action, entityType string, entityID uint, description string) *Activity {
	a := &Activity{
		Action:      action,
		EntityType:  entityType,
		Description: description,
	}
	if userID != 0 {
		a.UserID = &userID
	}
	if entityID != 0 {
		a.EntityID = &entityID
	}
	return a
}
