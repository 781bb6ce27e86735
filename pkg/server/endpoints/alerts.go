package endpoints

import (
	"fmt"
	"net/http"
	"time"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/logger"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/providers"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

func RegisterAlertsEndpoints(s *server.Server) {
	lggr := s.Logger.Named("alerts")

	s.API.HandleFunc("/alerts", handleAlerts(s.AlertsStore, s.Chain, "", lggr)).Methods("GET")
	s.API.HandleFunc("/alerts/critical", handleAlerts(s.AlertsStore, s.Chain, store.SeverityCritical, lggr)).Methods("GET")
}

// providerAlerts reports every chain provider left without an active key.
func providerAlerts(chain *providers.Chain, now time.Time) []store.Alert {
	if chain == nil {
		return nil
	}
	var out []store.Alert
	for _, p := range chain.ExhaustedProviders() {
		out = append(out, store.Alert{
			Kind:       store.AlertProviderKeysExhausted,
			Severity:   store.SeverityCritical,
			Title:      fmt.Sprintf("No active API keys for %s", p),
			Message:    fmt.Sprintf("Add a key for %s or set %s; the assistant falls back to the next provider.", p, p.EnvVar()),
			EntityType: model.EntityAPIKey,
			Since:      now,
		})
	}
	return out
}

// handleAlerts serves the derived compliance alerts, limited to severity
// when it is set.
func handleAlerts(alerts store.AlertsStore, chain func() *providers.Chain, severity store.Severity, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		list, err := alerts.Alerts(r.Context(), now)
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}
		list = append(list, providerAlerts(chain(), now)...)
		store.SortAlerts(list)

		if severity != "" {
			list = store.FilterAlerts(list, severity)
		}
		if list == nil {
			list = []store.Alert{}
		}
		respondWithJSON(w, http.StatusOK, list)
	}
}
