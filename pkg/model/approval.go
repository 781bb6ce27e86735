package model

import "time"

type ApprovalItem struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `json:"description"`
	ItemType    ApprovalType   `gorm:"type:text;not null" json:"item_type"`
	SystemID    *uint          `json:"system_id,omitempty"`
	RequestedBy uint           `gorm:"not null" json:"requested_by"`
	Status      ApprovalStatus `gorm:"type:text;not null" json:"status"`
	Priority    Priority       `gorm:"type:text;not null" json:"priority"`
	DueAt       *time.Time     `json:"due_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (ApprovalItem) TableName() string {
	return "approval_items"
}

// IsOverdue reports whether an open item has passed its due date.
func (a *ApprovalItem) IsOverdue(now time.Time) bool {
	return a.Status.IsOpen() && a.DueAt != nil && now.After(*a.DueAt)
}

type ApprovalAssignment struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	ItemID     uint       `gorm:"not null" json:"item_id"`
	ApproverID uint       `gorm:"not null" json:"approver_id"`
	Decision   Decision   `gorm:"type:text;not null" json:"decision"`
	Comment    string     `json:"comment,omitempty"`
	DecidedAt  *time.Time `json:"decided_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (ApprovalAssignment) TableName() string {
	return "approval_assignments"
}

type ApprovalHistory struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	ItemID    uint          `gorm:"not null" json:"item_id"`
	ActorID   *uint         `json:"actor_id,omitempty"`
	Action    HistoryAction `gorm:"type:text;not null" json:"action"`
	Comment   string        `json:"comment,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

func (ApprovalHistory) TableName() string {
	return "approval_history"
}

// ResolveStatus derives an item's status from its assignments: any
// rejection rejects the item, unanimous approval approves it, anything
// else leaves the current open status untouched.
func ResolveStatus(current ApprovalStatus, assignments []ApprovalAssignment) ApprovalStatus {
	if len(assignments) == 0 {
		return current
	}
	approved := 0
	for _, a := range assignments {
		switch a.Decision {
		case DecisionRejected:
			return ApprovalStatusRejected
		case DecisionApproved:
			approved++
		}
	}
	if approved == len(assignments) {
		return ApprovalStatusApproved
	}
	return current
}
