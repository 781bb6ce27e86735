package endpoints

import (
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/server"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

// StatusResponse is the body of GET /
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status        string `json:"status"`
	Database      string `json:"database"`
	SchemaVersion *uint  `json:"schema_version,omitempty"`
	SchemaDirty   bool   `json:"schema_dirty,omitempty"`
	Error         string `json:"error,omitempty"`
}

// RegisterStatusEndpoints registers the unauthenticated status, health and
// metrics endpoints.
func RegisterStatusEndpoints(s *server.Server) {
	s.Router.HandleFunc("/", handleStatus()).Methods("GET")
	s.Router.HandleFunc("/health", handleHealth(s.HealthStore)).Methods("GET")
	s.Router.Handle("/metrics", promhttp.Handler()).Methods("GET")
}

func version() string {
	if v := os.Getenv("AIACT_VERSION"); v != "" {
		return v
	}
	return "0.1.0"
}

func handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok", Version: version()})
	}
}

func handleHealth(healthStore store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, err := healthStore.Check(r.Context())
		if err != nil {
			respondWithJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status:   "error",
				Database: "unreachable",
				Error:    "database connectivity check failed",
			})
			return
		}
		respondWithJSON(w, http.StatusOK, HealthResponse{
			Status:        "ok",
			Database:      "ok",
			SchemaVersion: h.SchemaVersion,
			SchemaDirty:   h.SchemaDirty,
		})
	}
}
