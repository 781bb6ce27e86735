package endpoints

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

func approvalDetail(status model.ApprovalStatus) *store.ApprovalDetail {
	return &store.ApprovalDetail{
		Item: model.ApprovalItem{ID: 10, Title: "Deploy chatbot", Status: status, Priority: model.PriorityHigh},
		Assignments: []model.ApprovalAssignment{
			{ID: 1, ItemID: 10, ApproverID: officerUser.ID},
		},
	}
}

func TestListApprovals(t *testing.T) {
	env := newTestEnv(t)
	env.approvals.On("ListApprovals", mock.MatchedBy(func(f store.ApprovalFilter) bool {
		return f.AssignedTo != nil && *f.AssignedTo == officerUser.ID &&
			f.Status != nil && *f.Status == model.ApprovalStatusPending
	})).Return([]model.ApprovalItem{{ID: 10, Title: "Deploy chatbot"}}, nil).Once()

	w := env.do("GET", "/api/approvals?assigned=me&status=pending", nil, officerUser)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Deploy chatbot")
}

func TestCreateApproval(t *testing.T) {
	env := newTestEnv(t)
	env.allowActivities()
	env.approvals.On("CreateApproval", mock.MatchedBy(func(i *model.ApprovalItem) bool {
		return i.RequestedBy == officerUser.ID && i.Status == model.ApprovalStatusPending &&
			i.ItemType == model.ApprovalTypeDeployment && i.Priority == model.PriorityMedium
	})).Run(func(args mock.Arguments) {
		args.Get(0).(*model.ApprovalItem).ID = 10
	}).Return(nil).Once()
	env.approvals.On("Assign", uint(10), officerUser.ID, []uint{1, 3}).Return([]model.ApprovalAssignment{{}, {}}, nil).Once()
	env.approvals.On("GetApproval", uint(10)).Return(approvalDetail(model.ApprovalStatusPending), nil).Once()

	w := env.do("POST", "/api/approvals", map[string]interface{}{
		"title":     "Deploy chatbot",
		"item_type": "deployment",
		"approvers": []uint{1, 3},
	}, officerUser)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var detail store.ApprovalDetail
	decodeBody(t, w, &detail)
	assert.Equal(t, uint(10), detail.Item.ID)
}

func TestDecide(t *testing.T) {
	t.Run("assigned approver approves", func(t *testing.T) {
		env := newTestEnv(t)
		env.allowActivities()
		env.approvals.On("Decide", mock.MatchedBy(func(in store.DecisionInput) bool {
			return in.ItemID == 10 && in.ApproverID == officerUser.ID &&
				in.Decision == model.DecisionApproved && !in.Override && in.Comment == "looks good"
		})).Return(approvalDetail(model.ApprovalStatusApproved), nil).Once()

		w := env.do("POST", "/api/approvals/10/decision", map[string]string{
			"decision": "approved",
			"comment":  "  looks good ",
		}, officerUser)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var detail store.ApprovalDetail
		decodeBody(t, w, &detail)
		assert.Equal(t, model.ApprovalStatusApproved, detail.Item.Status)
	})

	t.Run("admins decide with override", func(t *testing.T) {
		env := newTestEnv(t)
		env.allowActivities()
		env.approvals.On("Decide", mock.MatchedBy(func(in store.DecisionInput) bool {
			return in.Override && in.Decision == model.DecisionRejected
		})).Return(approvalDetail(model.ApprovalStatusRejected), nil).Once()

		w := env.do("POST", "/api/approvals/10/decision", map[string]string{"decision": "rejected"}, adminUser)

		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("decided items are a conflict", func(t *testing.T) {
		env := newTestEnv(t)
		env.approvals.On("Decide", mock.Anything).Return(nil, store.ErrDecided).Once()

		w := env.do("POST", "/api/approvals/10/decision", map[string]string{"decision": "approved"}, officerUser)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unassigned users are forbidden", func(t *testing.T) {
		env := newTestEnv(t)
		env.approvals.On("Decide", mock.Anything).Return(nil, store.ErrNotAssigned).Once()

		w := env.do("POST", "/api/approvals/10/decision", map[string]string{"decision": "approved"}, viewerUser)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("pending is not a decision", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do("POST", "/api/approvals/10/decision", map[string]string{"decision": "pending"}, officerUser)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, errorMessage(t, w), "approved rejected")
	})
}

func TestAssignApprovers(t *testing.T) {
	t.Run("closed item", func(t *testing.T) {
		env := newTestEnv(t)
		env.approvals.On("Assign", uint(10), officerUser.ID, []uint{4}).Return([]model.ApprovalAssignment(nil), store.ErrDecided).Once()

		w := env.do("POST", "/api/approvals/10/assign", map[string]interface{}{"approver_ids": []uint{4}}, officerUser)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("empty list", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do("POST", "/api/approvals/10/assign", map[string]interface{}{"approver_ids": []uint{}}, officerUser)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAddComment(t *testing.T) {
	env := newTestEnv(t)
	actor := viewerUser.ID
	env.approvals.On("AddComment", uint(10), viewerUser.ID, "please add the DPIA").Return(&model.ApprovalHistory{
		ID: 3, ItemID: 10, ActorID: &actor, Action: model.HistoryActionCommented, Comment: "please add the DPIA",
	}, nil).Once()

	w := env.do("POST", "/api/approvals/10/comments", map[string]string{"comment": "please add the DPIA"}, viewerUser)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"action":"commented"`)
}
