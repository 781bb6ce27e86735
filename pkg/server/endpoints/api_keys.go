package endpoints

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/audit"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/logger"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/providers"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/middleware"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

const (
	KeySourceDatabase    = "database"
	KeySourceEnvironment = "environment"
)

// KeyView is a provider key as shown to administrators. The key itself is
// always masked.
type KeyView struct {
	ID            uint           `json:"id,omitempty"`
	Provider      model.Provider `json:"provider"`
	Label         string         `json:"label"`
	MaskedKey     string         `json:"masked_key"`
	Fingerprint   string         `json:"fingerprint"`
	Source        string         `json:"source"`
	IsActive      bool           `json:"is_active"`
	FailureCount  int            `json:"failure_count"`
	LastError     string         `json:"last_error,omitempty"`
	LastUsedAt    *time.Time     `json:"last_used_at,omitempty"`
	DeactivatedAt *time.Time     `json:"deactivated_at,omitempty"`
	CreatedAt     *time.Time     `json:"created_at,omitempty"`
}

func storedKeyView(k model.APIKey) KeyView {
	created := k.CreatedAt
	return KeyView{
		ID:            k.ID,
		Provider:      k.Provider,
		Label:         k.Label,
		MaskedKey:     model.MaskKey(k.Key),
		Fingerprint:   k.Fingerprint,
		Source:        KeySourceDatabase,
		IsActive:      k.IsActive,
		FailureCount:  k.FailureCount,
		LastError:     k.LastError,
		LastUsedAt:    k.LastUsedAt,
		DeactivatedAt: k.DeactivatedAt,
		CreatedAt:     &created,
	}
}

func envKeyView(k providers.Key) KeyView {
	v := KeyView{
		Provider:     k.Provider,
		Label:        k.Label,
		MaskedKey:    model.MaskKey(k.Value),
		Fingerprint:  k.Fingerprint(),
		Source:       KeySourceEnvironment,
		IsActive:     k.Active,
		FailureCount: k.Failures,
		LastError:    k.LastError,
	}
	if !k.LastUsedAt.IsZero() {
		used := k.LastUsedAt
		v.LastUsedAt = &used
	}
	return v
}

type addKeyRequest struct {
	Provider string `json:"provider" validate:"required"`
	Key      string `json:"key" validate:"required,min=8,max=512"`
	Label    string `json:"label" validate:"max=255"`
}

type checkKeysRequest struct {
	Provider string `json:"provider"`
}

// CheckKeysResponse is the result of a key health check.
type CheckKeysResponse struct {
	Results []providers.KeyHealth   `json:"results"`
	Healthy map[model.Provider]bool `json:"healthy"`
}

// RegisterAPIKeysEndpoints registers the admin-only provider key endpoints.
func RegisterAPIKeysEndpoints(s *server.Server) {
	lggr := s.Logger.Named("api-keys")
	keys := s.APIKeysStore

	s.API.Handle("/api-keys", middleware.RequireAdmin(handleListKeys(keys, s.KeyManager, lggr))).Methods("GET")
	s.API.Handle("/api-keys", middleware.RequireAdmin(handleAddKey(keys, s.ActivitiesStore, s.LoadProviderKeys, lggr))).Methods("POST")
	s.API.Handle("/api-keys/check", middleware.RequireAdmin(handleCheckKeys(s.KeyManager, s.Clients, lggr))).Methods("POST")
	s.API.Handle("/api-keys/{id:[0-9]+}", middleware.RequireAdmin(handleDeactivateKey(keys, s.ActivitiesStore, s.LoadProviderKeys, lggr))).Methods("DELETE")
}

func handleListKeys(keys store.APIKeysStore, manager *providers.KeyManager, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stored, err := keys.ListKeys(r.Context())
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}

		views := make([]KeyView, 0, len(stored))
		for _, k := range stored {
			views = append(views, storedKeyView(k))
		}
		for _, p := range model.Providers() {
			for _, k := range manager.Keys(p) {
				if !k.Stored() {
					views = append(views, envKeyView(k))
				}
			}
		}
		respondWithJSON(w, http.StatusOK, views)
	}
}

func handleAddKey(keys store.APIKeysStore, activities store.ActivitiesStore, reload func(context.Context) error, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addKeyRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		provider, err := model.ParseProvider(req.Provider)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		id := caller(r)

		key := &model.APIKey{Provider: provider, Label: req.Label, Key: req.Key}
		err = keys.AddKey(r.Context(), key)
		audit.Log(audit.APIKeyEvent{
			Provider:     string(provider),
			Fingerprint:  model.Fingerprint(req.Key),
			Label:        req.Label,
			Operation:    "added",
			Actor:        id.Email,
			ClientIP:     clientIP(id),
			Success:      err == nil,
			ErrorMessage: errString(err),
		})
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}
		if err := reload(r.Context()); err != nil {
			lggr.Errorw("Failed to reload provider keys", "err", err)
		}

		recordActivity(r, activities, lggr, model.NewActivity(id.UserID, "created", model.EntityAPIKey, key.ID,
			fmt.Sprintf("%s API key %s added", provider, model.MaskKey(req.Key))))
		respondWithJSON(w, http.StatusCreated, storedKeyView(*key))
	}
}

func handleDeactivateKey(keys store.APIKeysStore, activities store.ActivitiesStore, reload func(context.Context) error, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keyID, ok := pathID(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, "invalid id")
			return
		}
		id := caller(r)

		key, err := keys.GetKey(r.Context(), keyID)
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}

		reason := "deactivated by " + id.Email
		err = keys.Deactivate(r.Context(), key.ID, reason, time.Now().UTC())
		audit.Log(audit.APIKeyEvent{
			Provider:     string(key.Provider),
			Fingerprint:  key.Fingerprint,
			Label:        key.Label,
			Operation:    "deactivated",
			Actor:        id.Email,
			ClientIP:     clientIP(id),
			Success:      err == nil,
			ErrorMessage: errString(err),
		})
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}
		if err := reload(r.Context()); err != nil {
			lggr.Errorw("Failed to reload provider keys", "err", err)
		}

		recordActivity(r, activities, lggr, model.NewActivity(id.UserID, "deactivated", model.EntityAPIKey, key.ID,
			fmt.Sprintf("%s API key %s deactivated", key.Provider, model.MaskKey(key.Key))))
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleCheckKeys(manager *providers.KeyManager, clients []providers.Client, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkKeysRequest
		if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
			return
		}
		var only []model.Provider
		if req.Provider != "" {
			p, err := model.ParseProvider(req.Provider)
			if err != nil {
				respondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			only = append(only, p)
		}
		id := caller(r)

		results := manager.HealthCheck(r.Context(), clients, only...)
		for _, h := range results {
			audit.Log(audit.APIKeyEvent{
				Provider:     string(h.Provider),
				Fingerprint:  h.Fingerprint,
				Label:        h.Label,
				Operation:    "checked",
				Actor:        id.Email,
				ClientIP:     clientIP(id),
				Success:      h.Healthy,
				ErrorMessage: h.Error,
			})
		}
		lggr.Infow("API key check finished", "keys", len(results), "actor", id.Email)

		if results == nil {
			results = []providers.KeyHealth{}
		}
		respondWithJSON(w, http.StatusOK, CheckKeysResponse{Results: results, Healthy: providers.HealthyProviders(results)})
	}
}
