package gorm

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

var itemColumns = []string{"id", "title", "item_type", "requested_by", "status", "priority"}

func expectLockedItem(mockDB *MockDB, status string) {
	mockDB.Mock.ExpectBegin()
	mockDB.Mock.ExpectQuery(`SELECT \* FROM "approval_items" .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(itemColumns).
			AddRow(11, "Deploy chatbot", "deployment", 1, status, "high"))
}

func TestApprovalsStore_Decide(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects pending as a decision", func(t *testing.T) {
		mockDB := NewMockDB(t)
		_, err := NewApprovalsStore(mockDB.GormDB).Decide(ctx, store.DecisionInput{
			ItemID: 11, ApproverID: 2, Decision: model.DecisionPending,
		})
		assert.Error(t, err)
	})

	t.Run("closed item", func(t *testing.T) {
		mockDB := NewMockDB(t)
		expectLockedItem(mockDB, "approved")
		mockDB.Mock.ExpectRollback()

		_, err := NewApprovalsStore(mockDB.GormDB).Decide(ctx, store.DecisionInput{
			ItemID: 11, ApproverID: 2, Decision: model.DecisionApproved,
		})
		assert.ErrorIs(t, err, store.ErrDecided)
	})

	t.Run("unassigned approver", func(t *testing.T) {
		mockDB := NewMockDB(t)
		expectLockedItem(mockDB, "pending")
		mockDB.Mock.ExpectQuery(`SELECT \* FROM "approval_assignments"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mockDB.Mock.ExpectRollback()

		_, err := NewApprovalsStore(mockDB.GormDB).Decide(ctx, store.DecisionInput{
			ItemID: 11, ApproverID: 2, Decision: model.DecisionApproved,
		})
		assert.ErrorIs(t, err, store.ErrNotAssigned)
	})

	t.Run("assignment already decided", func(t *testing.T) {
		mockDB := NewMockDB(t)
		expectLockedItem(mockDB, "escalated")
		mockDB.Mock.ExpectQuery(`SELECT \* FROM "approval_assignments"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "item_id", "approver_id", "decision"}).
				AddRow(4, 11, 2, "approved"))
		mockDB.Mock.ExpectRollback()

		_, err := NewApprovalsStore(mockDB.GormDB).Decide(ctx, store.DecisionInput{
			ItemID: 11, ApproverID: 2, Decision: model.DecisionRejected,
		})
		assert.ErrorIs(t, err, store.ErrDecided)
	})

	t.Run("missing item", func(t *testing.T) {
		mockDB := NewMockDB(t)
		mockDB.Mock.ExpectBegin()
		mockDB.ExpectNotFound("approval_items")
		mockDB.Mock.ExpectRollback()

		_, err := NewApprovalsStore(mockDB.GormDB).Decide(ctx, store.DecisionInput{
			ItemID: 99, ApproverID: 2, Decision: model.DecisionApproved, DecidedAt: time.Now(),
		})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestApprovalsStore_AssignClosedItem(t *testing.T) {
	mockDB := NewMockDB(t)
	expectLockedItem(mockDB, "rejected")
	mockDB.Mock.ExpectRollback()

	_, err := NewApprovalsStore(mockDB.GormDB).Assign(context.Background(), 11, 1, []uint{2, 3})
	assert.ErrorIs(t, err, store.ErrDecided)
}

func TestApprovalsStore_EscalateNothingDue(t *testing.T) {
	mockDB := NewMockDB(t)
	mockDB.Mock.ExpectBegin()
	mockDB.Mock.ExpectQuery(`SELECT \* FROM "approval_items" WHERE status = \$1 AND due_at IS NOT NULL AND due_at < \$2`).
		WithArgs("pending", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(itemColumns))
	mockDB.Mock.ExpectCommit()

	items, err := NewApprovalsStore(mockDB.GormDB).Escalate(context.Background(), time.Now(), time.Now())
	assert.NoError(t, err)
	assert.Empty(t, items)
}
