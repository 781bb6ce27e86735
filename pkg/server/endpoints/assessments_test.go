package endpoints

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

func TestCreateAssessment(t *testing.T) {
	t.Run("unknown system", func(t *testing.T) {
		env := newTestEnv(t)
		env.systems.On("GetSystem", uint(9)).Return(nil, store.ErrNotFound).Once()

		w := env.do("POST", "/api/assessments", map[string]interface{}{"system_id": 9}, officerUser)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("completed status cannot be set on create", func(t *testing.T) {
		env := newTestEnv(t)
		env.allowActivities()
		env.systems.On("GetSystem", uint(1)).Return(&model.AISystem{ID: 1, Name: "Chatbot"}, nil).Once()
		env.assessments.On("CreateAssessment", mock.MatchedBy(func(a *model.RiskAssessment) bool {
			return a.Status == model.AssessmentStatusDraft && *a.AssessorID == officerUser.ID
		})).Return(nil).Once()

		w := env.do("POST", "/api/assessments", map[string]interface{}{
			"system_id": 1,
			"status":    "completed",
			"score":     40,
		}, officerUser)

		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("score out of range", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do("POST", "/api/assessments", map[string]interface{}{"system_id": 1, "score": 140}, officerUser)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListAssessmentsFilters(t *testing.T) {
	env := newTestEnv(t)
	env.assessments.On("ListAssessments", mock.MatchedBy(func(f store.AssessmentFilter) bool {
		return f.SystemID != nil && *f.SystemID == 4 && f.Status != nil && *f.Status == model.AssessmentStatusInProgress
	})).Return([]model.RiskAssessment{}, nil).Once()

	w := env.do("GET", "/api/assessments?system_id=4&status=in_progress", nil, viewerUser)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do("GET", "/api/assessments?system_id=abc", nil, viewerUser)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompleteAssessment(t *testing.T) {
	env := newTestEnv(t)
	env.allowActivities()

	next := time.Now().AddDate(1, 0, 0)
	env.assessments.On("CompleteAssessment", uint(8), mock.AnythingOfType("time.Time"), 12).Return(&model.RiskAssessment{
		ID:           8,
		SystemID:     1,
		Status:       model.AssessmentStatusCompleted,
		NextReviewAt: &next,
	}, nil).Once()

	w := env.do("POST", "/api/assessments/8/complete", nil, officerUser)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var a model.RiskAssessment
	decodeBody(t, w, &a)
	assert.Equal(t, model.AssessmentStatusCompleted, a.Status)
	assert.NotNil(t, a.NextReviewAt)
}

func TestCompleteAssessmentTwice(t *testing.T) {
	env := newTestEnv(t)

	env.assessments.On("CompleteAssessment", uint(8), mock.AnythingOfType("time.Time"), 12).
		Return(nil, fmt.Errorf("assessment 8: %w", store.ErrCompleted)).Once()

	w := env.do("POST", "/api/assessments/8/complete", nil, officerUser)

	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
}
