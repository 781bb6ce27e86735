package endpoints

import (
	"net/http"
	"time"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/logger"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

func RegisterDashboardEndpoints(s *server.Server) {
	s.API.HandleFunc("/dashboard", handleDashboard(s.DashboardStore, s.Logger.Named("dashboard"))).Methods("GET")
}

func handleDashboard(dashboard store.DashboardStore, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := dashboard.Stats(r.Context(), time.Now().UTC())
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}
		respondWithJSON(w, http.StatusOK, stats)
	}
}
