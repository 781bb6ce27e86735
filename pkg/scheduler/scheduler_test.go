package scheduler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/apperror"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/audit"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/config"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/logger"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/providers"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

func init() {
	audit.SetEnabled(false)
}

// escalator implements only Escalate; other store methods panic.
type escalator struct {
	store.ApprovalsStore
	mock.Mock
}

func (e *escalator) Escalate(ctx context.Context, cutoff, at time.Time) ([]model.ApprovalItem, error) {
	args := e.Called(cutoff, at)
	return args.Get(0).([]model.ApprovalItem), args.Error(1)
}

type checkClient struct {
	provider model.Provider
	invalid  string
}

func (c checkClient) Provider() model.Provider { return c.provider }

func (c checkClient) Ask(ctx context.Context, key providers.Key, question string) (providers.Answer, error) {
	return providers.Answer{}, nil
}

func (c checkClient) Check(ctx context.Context, key providers.Key) error {
	if key.Value == c.invalid {
		return apperror.External(string(c.provider), http.StatusForbidden, errors.New("forbidden"))
	}
	return nil
}

func newScheduler(t *testing.T, approvals store.ApprovalsStore, clients ...providers.Client) *Scheduler {
	lggr := logger.Test(t)
	s := New(lggr, providers.NewKeyManager(lggr), clients, approvals)
	s.now = func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestEscalateApprovals(t *testing.T) {
	approvals := &escalator{}
	wantCutoff := time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)
	approvals.On("Escalate", wantCutoff, mock.AnythingOfType("time.Time")).
		Return([]model.ApprovalItem{{ID: 4}, {ID: 9}}, nil).Once()
	s := newScheduler(t, approvals)

	n, err := s.EscalateApprovals(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	approvals.AssertExpectations(t)
}

func TestEscalateApprovals_Error(t *testing.T) {
	approvals := &escalator{}
	approvals.On("Escalate", mock.Anything, mock.Anything).
		Return([]model.ApprovalItem(nil), errors.New("connection refused")).Once()
	s := newScheduler(t, approvals)

	_, err := s.EscalateApprovals(context.Background(), 7)

	assert.ErrorContains(t, err, "connection refused")
}

func TestCheckKeys(t *testing.T) {
	s := newScheduler(t, &escalator{}, checkClient{provider: model.ProviderGemini, invalid: "gm-revoked"})
	s.keys.Add(providers.Key{Provider: model.ProviderGemini, Value: "gm-fine", Active: true})
	s.keys.Add(providers.Key{Provider: model.ProviderGemini, Value: "gm-revoked", Active: true})

	results := s.CheckKeys(context.Background())

	require.Len(t, results, 2)
	assert.True(t, providers.HealthyProviders(results)[model.ProviderGemini])
	assert.Equal(t, 1, s.keys.ActiveCount(model.ProviderGemini))
}

func TestReschedule(t *testing.T) {
	s := newScheduler(t, &escalator{})
	cfg := config.Default()

	require.NoError(t, s.Reschedule(cfg))
	assert.Len(t, s.entries, 2)
	assert.Equal(t, cfg.ApprovalEscalationDays, s.days)

	t.Run("empty schedule disables the job", func(t *testing.T) {
		disabled := *cfg
		disabled.APIKeyCheckSchedule = ""
		require.NoError(t, s.Reschedule(&disabled))
		assert.Len(t, s.entries, 1)
		assert.Contains(t, s.entries, JobEscalate)
	})

	t.Run("invalid schedule keeps the current jobs", func(t *testing.T) {
		bad := *cfg
		bad.ApprovalEscalationSchedule = "every tuesday"
		err := s.Reschedule(&bad)
		assert.ErrorContains(t, err, "approval_escalation")
		assert.Len(t, s.entries, 1)
	})
}

func TestStartStop(t *testing.T) {
	s := newScheduler(t, &escalator{})
	require.NoError(t, s.Start(config.Default()))
	assert.Len(t, s.cron.Entries(), 2)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
