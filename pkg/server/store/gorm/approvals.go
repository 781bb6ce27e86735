package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

var _ store.ApprovalsStore = (*ApprovalsStore)(nil)

// ApprovalsStore implements store.ApprovalsStore using GORM
type ApprovalsStore struct {
	db *gorm.DB
}

// NewApprovalsStore creates a new ApprovalsStore
func NewApprovalsStore(db *gorm.DB) *ApprovalsStore {
	return &ApprovalsStore{db: db}
}

func (s *ApprovalsStore) ListApprovals(ctx context.Context, filter store.ApprovalFilter) ([]model.ApprovalItem, error) {
	query := withCtx(s.db, ctx).Model(&model.ApprovalItem{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.AssignedTo != nil {
		query = query.Where("id IN (SELECT item_id FROM approval_assignments WHERE approver_id = ?)", *filter.AssignedTo)
	}

	var items []model.ApprovalItem
	tx := query.Scopes(paginate(filter.Page)).Order("created_at DESC, id DESC").Find(&items)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return items, nil
}

func (s *ApprovalsStore) GetApproval(ctx context.Context, id uint) (*store.ApprovalDetail, error) {
	return loadDetail(withCtx(s.db, ctx), id)
}

func loadDetail(db *gorm.DB, id uint) (*store.ApprovalDetail, error) {
	var detail store.ApprovalDetail
	if err := db.First(&detail.Item, id).Error; err != nil {
		return nil, translate(err)
	}
	if err := db.Where("item_id = ?", id).Order("id").Find(&detail.Assignments).Error; err != nil {
		return nil, err
	}
	if err := db.Where("item_id = ?", id).Order("created_at, id").Find(&detail.History).Error; err != nil {
		return nil, err
	}
	return &detail, nil
}

func (s *ApprovalsStore) CreateApproval(ctx context.Context, item *model.ApprovalItem) error {
	return withCtx(s.db, ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return translate(err)
		}
		actor := item.RequestedBy
		return tx.Create(&model.ApprovalHistory{
			ItemID:  item.ID,
			ActorID: &actor,
			Action:  model.HistoryActionCreated,
		}).Error
	})
}

func (s *ApprovalsStore) Assign(ctx context.Context, itemID, actorID uint, approverIDs []uint) ([]model.ApprovalAssignment, error) {
	var created []model.ApprovalAssignment
	err := withCtx(s.db, ctx).Transaction(func(tx *gorm.DB) error {
		item, err := lockItem(tx, itemID)
		if err != nil {
			return err
		}
		if !item.Status.IsOpen() {
			return store.ErrDecided
		}

		var existing []uint
		if err := tx.Model(&model.ApprovalAssignment{}).
			Where("item_id = ?", itemID).
			Pluck("approver_id", &existing).Error; err != nil {
			return err
		}
		seen := make(map[uint]bool, len(existing))
		for _, id := range existing {
			seen[id] = true
		}

		for _, approverID := range approverIDs {
			if seen[approverID] {
				continue
			}
			seen[approverID] = true
			created = append(created, model.ApprovalAssignment{
				ItemID:     itemID,
				ApproverID: approverID,
				Decision:   model.DecisionPending,
			})
		}
		if len(created) == 0 {
			return nil
		}
		if err := tx.Create(&created).Error; err != nil {
			return translate(err)
		}

		return tx.Create(&model.ApprovalHistory{
			ItemID:  itemID,
			ActorID: &actorID,
			Action:  model.HistoryActionAssigned,
			Comment: fmt.Sprintf("%d approver(s) assigned", len(created)),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *ApprovalsStore) Decide(ctx context.Context, in store.DecisionInput) (*store.ApprovalDetail, error) {
	if in.Decision == model.DecisionPending {
		return nil, fmt.Errorf("decision must be approved or rejected")
	}
	if in.DecidedAt.IsZero() {
		in.DecidedAt = time.Now()
	}

	var detail *store.ApprovalDetail
	err := withCtx(s.db, ctx).Transaction(func(tx *gorm.DB) error {
		item, err := lockItem(tx, in.ItemID)
		if err != nil {
			return err
		}
		if !item.Status.IsOpen() {
			return store.ErrDecided
		}

		var assignment model.ApprovalAssignment
		err = tx.Where("item_id = ? AND approver_id = ?", in.ItemID, in.ApproverID).First(&assignment).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if !in.Override {
				return store.ErrNotAssigned
			}
			assignment = model.ApprovalAssignment{
				ItemID:     in.ItemID,
				ApproverID: in.ApproverID,
				Decision:   model.DecisionPending,
			}
			if err := tx.Create(&assignment).Error; err != nil {
				return translate(err)
			}
		case err != nil:
			return err
		}
		if assignment.Decision != model.DecisionPending {
			return store.ErrDecided
		}

		err = tx.Model(&model.ApprovalAssignment{}).
			Where("id = ?", assignment.ID).
			Updates(map[string]interface{}{
				"decision":   in.Decision,
				"comment":    in.Comment,
				"decided_at": in.DecidedAt,
			}).Error
		if err != nil {
			return err
		}

		action := model.HistoryActionApproved
		if in.Decision == model.DecisionRejected {
			action = model.HistoryActionRejected
		}
		approver := in.ApproverID
		if err := tx.Create(&model.ApprovalHistory{
			ItemID:  in.ItemID,
			ActorID: &approver,
			Action:  action,
			Comment: in.Comment,
		}).Error; err != nil {
			return err
		}

		var assignments []model.ApprovalAssignment
		if err := tx.Where("item_id = ?", in.ItemID).Find(&assignments).Error; err != nil {
			return err
		}
		if status := model.ResolveStatus(item.Status, assignments); status != item.Status {
			if err := tx.Model(&model.ApprovalItem{}).
				Where("id = ?", in.ItemID).
				Update("status", status).Error; err != nil {
				return err
			}
		}

		detail, err = loadDetail(tx, in.ItemID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *ApprovalsStore) AddComment(ctx context.Context, itemID, actorID uint, comment string) (*model.ApprovalHistory, error) {
	entry := &model.ApprovalHistory{
		ItemID:  itemID,
		ActorID: &actorID,
		Action:  model.HistoryActionCommented,
		Comment: comment,
	}
	err := withCtx(s.db, ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.ApprovalItem{}).Where("id = ?", itemID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return store.ErrNotFound
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *ApprovalsStore) Escalate(ctx context.Context, cutoff, at time.Time) ([]model.ApprovalItem, error) {
	var items []model.ApprovalItem
	err := withCtx(s.db, ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("status = ? AND due_at IS NOT NULL AND due_at < ?", model.ApprovalStatusPending, cutoff).
			Order("id").
			Find(&items).Error
		if err != nil || len(items) == 0 {
			return err
		}

		ids := make([]uint, 0, len(items))
		for i := range items {
			ids = append(ids, items[i].ID)
			items[i].Status = model.ApprovalStatusEscalated
		}
		if err := tx.Model(&model.ApprovalItem{}).
			Where("id IN ?", ids).
			Update("status", model.ApprovalStatusEscalated).Error; err != nil {
			return err
		}

		history := make([]model.ApprovalHistory, 0, len(items))
		activities := make([]model.Activity, 0, len(items))
		for _, item := range items {
			comment := fmt.Sprintf("overdue since %s", item.DueAt.UTC().Format(time.RFC3339))
			history = append(history, model.ApprovalHistory{
				ItemID:    item.ID,
				Action:    model.HistoryActionEscalated,
				Comment:   comment,
				CreatedAt: at,
			})
			activity := model.NewActivity(0, "escalated", model.EntityApproval, item.ID,
				fmt.Sprintf("Approval %q escalated: %s", item.Title, comment))
			activity.CreatedAt = at
			activities = append(activities, *activity)
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}
		return tx.Create(&activities).Error
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func lockItem(tx *gorm.DB, id uint) (*model.ApprovalItem, error) {
	var item model.ApprovalItem
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&item, id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}
