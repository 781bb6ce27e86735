package endpoints

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/providers"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

func TestAlerts(t *testing.T) {
	old := time.Now().Add(-48 * time.Hour)
	derived := []store.Alert{
		{Kind: store.AlertUnclassifiedSystem, Severity: store.SeverityMedium, Title: "Unclassified", Since: old},
		{Kind: store.AlertProhibitedSystem, Severity: store.SeverityCritical, Title: "Prohibited", Since: old},
	}

	t.Run("all alerts include exhausted providers", func(t *testing.T) {
		env := newTestEnv(t)
		env.alerts.On("Alerts", mock.Anything).Return(append([]store.Alert(nil), derived...), nil).Once()

		w := env.do("GET", "/api/alerts", nil, viewerUser)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var alerts []store.Alert
		decodeBody(t, w, &alerts)
		// two derived alerts plus deepseek, gemini and google_search without keys
		require.Len(t, alerts, 5)
		assert.Equal(t, store.AlertProhibitedSystem, alerts[0].Kind)
		assert.Equal(t, store.SeverityMedium, alerts[4].Severity)
	})

	t.Run("critical only", func(t *testing.T) {
		env := newTestEnv(t)
		env.srv.KeyManager.Add(providers.Key{Provider: model.ProviderDeepSeek, Value: "sk-deepseek-1", Active: true})
		env.srv.KeyManager.Add(providers.Key{Provider: model.ProviderGemini, Value: "gm-key-1", Active: true})
		env.srv.KeyManager.Add(providers.Key{Provider: model.ProviderGoogleSearch, Value: "gs-key-1", Active: true})
		env.alerts.On("Alerts", mock.Anything).Return(append([]store.Alert(nil), derived...), nil).Once()

		w := env.do("GET", "/api/alerts/critical", nil, viewerUser)

		require.Equal(t, http.StatusOK, w.Code)
		var alerts []store.Alert
		decodeBody(t, w, &alerts)
		require.Len(t, alerts, 1)
		assert.Equal(t, store.AlertProhibitedSystem, alerts[0].Kind)
	})

	t.Run("no alerts is an empty list", func(t *testing.T) {
		env := newTestEnv(t)
		env.alerts.On("Alerts", mock.Anything).Return([]store.Alert(nil), nil).Once()
		for _, p := range env.srv.Chain().Order() {
			env.srv.KeyManager.Add(providers.Key{Provider: p, Value: string(p) + "-key-1", Active: true})
		}

		w := env.do("GET", "/api/alerts/critical", nil, viewerUser)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})
}

func TestProviderAlerts(t *testing.T) {
	assert.Nil(t, providerAlerts(nil, time.Now()))
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	env.dashboard.On("Stats", mock.Anything).Return(&store.DashboardStats{
		TotalSystems:           4,
		SystemsByTier:          map[string]int64{"high": 2, "unclassified": 2},
		TrainingCompletionRate: 62.5,
	}, nil).Once()

	w := env.do("GET", "/api/dashboard", nil, viewerUser)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var stats store.DashboardStats
	decodeBody(t, w, &stats)
	assert.EqualValues(t, 4, stats.TotalSystems)
	assert.EqualValues(t, 2, stats.SystemsByTier["unclassified"])
}

func TestActivities(t *testing.T) {
	env := newTestEnv(t)
	env.activities.On("ListActivities", mock.MatchedBy(func(f store.ActivityFilter) bool {
		return f.EntityType == model.EntitySystem && f.UserID != nil && *f.UserID == 2 && f.Page.Limit == 5
	})).Return([]model.Activity{{ID: 1, Action: "created", EntityType: model.EntitySystem}}, nil).Once()

	w := env.do("GET", "/api/activities?entity_type=system&user_id=2&limit=5", nil, viewerUser)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env.activities.AssertExpectations(t)
}
