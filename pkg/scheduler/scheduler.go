// Package scheduler runs the periodic maintenance jobs of the server: the
// provider key health check and approval escalation.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/config"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/logger"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/metrics"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/providers"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

const (
	JobKeyCheck  = "api_key_check"
	JobEscalate  = "approval_escalation"
	jobTimeout   = 5 * time.Minute
	statusOK     = "ok"
	statusFailed = "error"
)

type Scheduler struct {
	lggr      logger.Logger
	keys      *providers.KeyManager
	clients   []providers.Client
	approvals store.ApprovalsStore
	now       func() time.Time

	mu      sync.Mutex
	cron    *cron.Cron
	entries map[string]cron.EntryID
	days    int
}

func New(lggr logger.Logger, keys *providers.KeyManager, clients []providers.Client, approvals store.ApprovalsStore) *Scheduler {
	lggr = lggr.Named("scheduler")
	cl := cronLogger{lggr}
	return &Scheduler{
		lggr:      lggr,
		keys:      keys,
		clients:   clients,
		approvals: approvals,
		now:       func() time.Time { return time.Now().UTC() },
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		entries: make(map[string]cron.EntryID),
	}
}

// Start schedules the jobs of cfg and starts the cron runner.
func (s *Scheduler) Start(cfg *config.Config) error {
	if err := s.Reschedule(cfg); err != nil {
		return err
	}
	s.cron.Start()
	s.lggr.Infow("Scheduler started", "jobs", len(s.entries))
	return nil
}

// Reschedule replaces the scheduled jobs with the ones cfg describes. An
// empty schedule disables its job. On error the previous jobs stay.
func (s *Scheduler) Reschedule(cfg *config.Config) error {
	specs := map[string]string{
		JobKeyCheck: cfg.APIKeyCheckSchedule,
		JobEscalate: cfg.ApprovalEscalationSchedule,
	}
	schedules := make(map[string]cron.Schedule, len(specs))
	for job, spec := range specs {
		if spec == "" {
			continue
		}
		sched, err := cron.ParseStandard(spec)
		if err != nil {
			return fmt.Errorf("invalid schedule %q for %s: %w", spec, job, err)
		}
		schedules[job] = sched
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.entries {
		s.cron.Remove(id)
	}
	s.entries = make(map[string]cron.EntryID)
	s.days = cfg.ApprovalEscalationDays

	for job, sched := range schedules {
		s.entries[job] = s.cron.Schedule(sched, cron.FuncJob(s.jobFunc(job)))
		s.lggr.Debugw("Job scheduled", "job", job, "schedule", specs[job])
	}
	return nil
}

// Stop stops the runner and waits for running jobs to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
		s.lggr.Info("Scheduler stopped")
	case <-ctx.Done():
		s.lggr.Warnw("Scheduler stopped before jobs finished", "err", ctx.Err())
	}
}

func (s *Scheduler) jobFunc(job string) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		var err error
		switch job {
		case JobKeyCheck:
			s.CheckKeys(ctx)
		case JobEscalate:
			s.mu.Lock()
			days := s.days
			s.mu.Unlock()
			_, err = s.EscalateApprovals(ctx, days)
		}

		status := statusOK
		if err != nil {
			status = statusFailed
			s.lggr.Errorw("Job failed", "job", job, "err", err)
		}
		metrics.RecordJobRun(job, status)
	}
}

// CheckKeys probes every provider key and logs the providers left without
// a healthy one.
func (s *Scheduler) CheckKeys(ctx context.Context) []providers.KeyHealth {
	results := s.keys.HealthCheck(ctx, s.clients)
	healthy := providers.HealthyProviders(results)

	var unhealthy []string
	for _, h := range results {
		if !healthy[h.Provider] {
			unhealthy = append(unhealthy, string(h.Provider))
		}
	}
	if len(unhealthy) > 0 {
		s.lggr.Warnw("Providers without a healthy key", "providers", dedupe(unhealthy))
	}
	s.lggr.Infow("API key check finished", "keys", len(results), "healthy_providers", len(healthy))
	return results
}

// EscalateApprovals escalates pending items more than days past due.
func (s *Scheduler) EscalateApprovals(ctx context.Context, days int) (int, error) {
	now := s.now()
	cutoff := now.AddDate(0, 0, -days)

	items, err := s.approvals.Escalate(ctx, cutoff, now)
	if err != nil {
		return 0, fmt.Errorf("failed to escalate approvals: %w", err)
	}
	if len(items) > 0 {
		ids := make([]uint, 0, len(items))
		for _, item := range items {
			ids = append(ids, item.ID)
		}
		s.lggr.Infow("Approvals escalated", "count", len(items), "ids", ids, "cutoff", cutoff)
	}
	return len(items), nil
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// cronLogger adapts Logger to cron.Logger.
type cronLogger struct {
	lggr logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.lggr.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.lggr.Errorw(msg, append(keysAndValues, "err", err)...)
}
