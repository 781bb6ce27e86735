package store

import (
	"context"
	"time"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
)

// ApprovalFilter narrows ListApprovals. Nil fields do not filter.
type ApprovalFilter struct {
	Status     *model.ApprovalStatus
	AssignedTo *uint
	Page       Page
}

// ApprovalDetail is an item with its assignments and history.
type ApprovalDetail struct {
	Item        model.ApprovalItem         `json:"item"`
	Assignments []model.ApprovalAssignment `json:"assignments"`
	History     []model.ApprovalHistory    `json:"history"`
}

// IsAssigned reports whether userID is one of the item's approvers.
func (d *ApprovalDetail) IsAssigned(userID uint) bool {
	for _, a := range d.Assignments {
		if a.ApproverID == userID {
			return true
		}
	}
	return false
}

// DecisionInput is an approver's decision on an item.
type DecisionInput struct {
	ItemID     uint
	ApproverID uint
	Decision   model.Decision
	Comment    string
	// Override lets an unassigned approver (an admin) decide; an
	// assignment is created for them.
	Override  bool
	DecidedAt time.Time
}

// ApprovalsStore abstracts the approval workflow
type ApprovalsStore interface {
	ListApprovals(ctx context.Context, filter ApprovalFilter) ([]model.ApprovalItem, error)
	GetApproval(ctx context.Context, id uint) (*ApprovalDetail, error)

	// CreateApproval inserts item with a "created" history entry.
	CreateApproval(ctx context.Context, item *model.ApprovalItem) error

	// Assign adds approvers to an open item, skipping existing ones, and
	// records an "assigned" history entry. It returns the new assignments.
	Assign(ctx context.Context, itemID, actorID uint, approverIDs []uint) ([]model.ApprovalAssignment, error)

	// Decide records a decision and resolves the item status. Closed items
	// and already decided assignments yield ErrDecided; unassigned
	// approvers yield ErrNotAssigned unless Override is set.
	Decide(ctx context.Context, in DecisionInput) (*ApprovalDetail, error)

	AddComment(ctx context.Context, itemID, actorID uint, comment string) (*model.ApprovalHistory, error)

	// Escalate moves pending items due before cutoff to escalated and
	// returns them.
	Escalate(ctx context.Context, cutoff, at time.Time) ([]model.ApprovalItem, error)
}
