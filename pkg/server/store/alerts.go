package store

import (
	"context"
	"sort"
	"time"
)

type AlertKind string

const (
	AlertProhibitedSystem      AlertKind = "prohibited_system"
	AlertMissingAssessment     AlertKind = "missing_assessment"
	AlertOverdueReview         AlertKind = "overdue_review"
	AlertOverdueApproval       AlertKind = "overdue_approval"
	AlertUnclassifiedSystem    AlertKind = "unclassified_system"
	AlertProviderKeysExhausted AlertKind = "provider_keys_exhausted"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

func (s Severity) rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	default:
		return 3
	}
}

// Alert is a compliance problem derived from the current data.
type Alert struct {
	Kind       AlertKind `json:"kind"`
	Severity   Severity  `json:"severity"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	EntityType string    `json:"entity_type,omitempty"`
	EntityID   uint      `json:"entity_id,omitempty"`
	// Since is when the condition started; older alerts sort first.
	Since time.Time `json:"since"`
}

// SortAlerts orders alerts by severity, then age.
func SortAlerts(alerts []Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		ri, rj := alerts[i].Severity.rank(), alerts[j].Severity.rank()
		if ri != rj {
			return ri < rj
		}
		return alerts[i].Since.Before(alerts[j].Since)
	})
}

// FilterAlerts returns the alerts of the given severity.
func FilterAlerts(alerts []Alert, severity Severity) []Alert {
	out := make([]Alert, 0, len(alerts))
	for _, a := range alerts {
		if a.Severity == severity {
			out = append(out, a)
		}
	}
	return out
}

// AlertsStore derives compliance alerts from stored records
type AlertsStore interface {
	Alerts(ctx context.Context, now time.Time) ([]Alert, error)
}
