package providers

import (
	"context"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/apperror"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/audit"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
)

const (
	StatusOK       = "ok"
	StatusInvalid  = "invalid"
	StatusError    = "error"
	StatusInactive = "inactive"
	StatusNoClient = "unsupported"
)

type KeyHealth struct {
	Provider    model.Provider `json:"provider"`
	Label       string         `json:"label"`
	Fingerprint string         `json:"fingerprint"`
	Stored      bool           `json:"stored"`
	Healthy     bool           `json:"healthy"`
	Status      string         `json:"status"`
	Error       string         `json:"error,omitempty"`
}

// HealthCheck probes every active key of the given providers (all when
// none are given). Keys failing permanently are deactivated; keys that
// are already inactive are reported without a probe. A misconfigured
// client is reported but not counted against the key.
func (m *KeyManager) HealthCheck(ctx context.Context, clients []Client, only ...model.Provider) []KeyHealth {
	byProvider := make(map[model.Provider]Client, len(clients))
	for _, c := range clients {
		byProvider[c.Provider()] = c
	}

	providers := only
	if len(providers) == 0 {
		providers = model.Providers()
	}

	var results []KeyHealth
	for _, p := range providers {
		for _, key := range m.Keys(p) {
			h := KeyHealth{
				Provider:    p,
				Label:       key.Label,
				Fingerprint: key.Fingerprint(),
				Stored:      key.Stored(),
			}

			client, ok := byProvider[p]
			switch {
			case !key.Active:
				h.Status = StatusInactive
				h.Error = key.LastError
			case !ok:
				h.Status = StatusNoClient
			default:
				err := client.Check(ctx, key)
				switch {
				case err == nil:
					h.Healthy = true
					h.Status = StatusOK
					m.markSuccess(ctx, key)
				case apperror.TypeOf(err) == apperror.Validation:
					h.Status = StatusError
					h.Error = err.Error()
				case IsPermanent(err):
					h.Status = StatusInvalid
					h.Error = err.Error()
					m.Deactivate(ctx, key, err)
				default:
					h.Status = StatusError
					h.Error = err.Error()
					m.recordFailure(ctx, key, err)
				}
				audit.Log(audit.APIKeyEvent{
					Provider:     string(p),
					Fingerprint:  h.Fingerprint,
					Label:        key.Label,
					Operation:    "checked",
					Success:      h.Healthy,
					ErrorMessage: h.Error,
				})
			}
			results = append(results, h)
		}
	}
	return results
}

// HealthyProviders returns the providers with at least one healthy key in results.
func HealthyProviders(results []KeyHealth) map[model.Provider]bool {
	out := make(map[model.Provider]bool)
	for _, r := range results {
		if r.Healthy {
			out[r.Provider] = true
		}
	}
	return out
}
