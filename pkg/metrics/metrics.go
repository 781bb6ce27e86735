package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// ProviderRequests counts external provider calls by outcome
	// (success, retry, deactivated, exhausted).
	ProviderRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_requests_total",
			Help: "Total number of external AI provider calls by outcome",
		},
		[]string{"provider", "outcome"},
	)

	// ProviderActiveKeys is the number of usable keys per provider.
	ProviderActiveKeys = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "provider_active_keys",
			Help: "Number of active API keys per provider",
		},
		[]string{"provider"},
	)

	// JobRuns counts background job executions by job and status.
	JobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_job_runs_total",
			Help: "Total number of background job runs by status",
		},
		[]string{"job", "status"},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, ProviderRequests, ProviderActiveKeys, JobRuns)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /api/systems/123 -> /api/systems/{id}, /api/approvals/4/decision -> /api/approvals/{id}/decision.
func NormalizePath(path string) string {
	// ReplaceAllString does not revisit the shared slash, so run twice for /1/2.
	path = numericPathSegment.ReplaceAllString(path, "/{id}$1")
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// RecordProviderCall increments the provider call counter.
func RecordProviderCall(provider, outcome string) {
	ProviderRequests.WithLabelValues(provider, outcome).Inc()
}

// SetActiveKeys sets the active key gauge for provider.
func SetActiveKeys(provider string, n int) {
	ProviderActiveKeys.WithLabelValues(provider).Set(float64(n))
}

// RecordJobRun increments the job counter for the given status (ok, error).
func RecordJobRun(job, status string) {
	JobRuns.WithLabelValues(job, status).Inc()
}
