package endpoints

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/riskclass"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

func tierPtr(t model.RiskTier) *model.RiskTier { return &t }

func TestListSystems(t *testing.T) {
	t.Run("passes filters to the store", func(t *testing.T) {
		env := newTestEnv(t)
		env.systems.On("ListSystems", mock.MatchedBy(func(f store.SystemFilter) bool {
			return f.RiskTier != nil && *f.RiskTier == model.RiskTierHigh &&
				f.Status != nil && *f.Status == model.SystemStatusDeployed &&
				f.Search == "credit" &&
				f.Page.Limit == store.DefaultLimit
		})).Return([]model.AISystem{{ID: 1, Name: "Credit scorer", RiskTier: tierPtr(model.RiskTierHigh)}}, nil).Once()

		w := env.do("GET", "/api/systems?risk_tier=high&status=deployed&search=credit", nil, viewerUser)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"risk_tier":"high"`)
	})

	t.Run("unclassified filter", func(t *testing.T) {
		env := newTestEnv(t)
		env.systems.On("ListSystems", mock.MatchedBy(func(f store.SystemFilter) bool {
			return f.Unclassified && f.RiskTier == nil
		})).Return([]model.AISystem{}, nil).Once()

		w := env.do("GET", "/api/systems?risk_tier=unclassified", nil, viewerUser)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown tier is a bad request", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do("GET", "/api/systems?risk_tier=extreme", nil, viewerUser)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, errorMessage(t, w), "extreme")
	})
}

func TestCreateSystem(t *testing.T) {
	t.Run("viewers cannot write", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do("POST", "/api/systems", map[string]string{"name": "Chatbot"}, viewerUser)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("officer registers a system owned by them", func(t *testing.T) {
		env := newTestEnv(t)
		env.allowActivities()
		env.systems.On("CreateSystem", mock.MatchedBy(func(s *model.AISystem) bool {
			return s.Name == "Chatbot" && s.OwnerID != nil && *s.OwnerID == officerUser.ID &&
				s.Status == model.SystemStatusDeployed && s.DeployedAt != nil
		})).Run(func(args mock.Arguments) {
			args.Get(0).(*model.AISystem).ID = 7
		}).Return(nil).Once()

		w := env.do("POST", "/api/systems", map[string]string{"name": "Chatbot", "status": "deployed"}, officerUser)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var sys model.AISystem
		decodeBody(t, w, &sys)
		assert.Equal(t, uint(7), sys.ID)
	})

	t.Run("name is required", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do("POST", "/api/systems", map[string]string{"vendor": "Acme"}, officerUser)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetSystemNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.systems.On("GetSystem", uint(99)).Return(nil, store.ErrNotFound).Once()

	w := env.do("GET", "/api/systems/99", nil, viewerUser)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteSystem(t *testing.T) {
	env := newTestEnv(t)
	env.allowActivities()
	env.systems.On("DeleteSystem", uint(5)).Return(nil).Once()

	w := env.do("DELETE", "/api/systems/5", nil, officerUser)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestClassify(t *testing.T) {
	t.Run("questionnaire only", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do("POST", "/api/systems/classify", riskclass.Questionnaire{
			Areas: []riskclass.Area{riskclass.AreaEmployment},
		}, viewerUser)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var result riskclass.Result
		decodeBody(t, w, &result)
		assert.Equal(t, model.RiskTierHigh, result.Tier)
		assert.NotEmpty(t, result.Obligations)
	})

	t.Run("unknown practice is rejected", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do("POST", "/api/systems/classify", map[string]interface{}{
			"prohibited_practices": []string{"mind_reading"},
		}, viewerUser)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("classifying a stored system persists the tier", func(t *testing.T) {
		env := newTestEnv(t)
		env.allowActivities()
		env.systems.On("GetSystem", uint(3)).Return(&model.AISystem{ID: 3, Name: "Citizen score"}, nil).Once()
		env.systems.On("SetRiskTier", uint(3), model.RiskTierUnacceptable).Return(nil).Once()

		w := env.do("POST", "/api/systems/3/classify", riskclass.Questionnaire{
			ProhibitedPractices: []riskclass.Practice{riskclass.PracticeSocialScoring},
		}, officerUser)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp ClassificationResponse
		decodeBody(t, w, &resp)
		require.NotNil(t, resp.System.RiskTier)
		assert.Equal(t, model.RiskTierUnacceptable, *resp.System.RiskTier)
	})
}
