package endpoints

import (
	"fmt"
	"net/http"
	"time"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/apperror"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/audit"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/logger"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/riskclass"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/middleware"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

type systemRequest struct {
	Name        string              `json:"name" validate:"required,max=255"`
	Description string              `json:"description" validate:"max=5000"`
	Vendor      string              `json:"vendor" validate:"max=255"`
	Purpose     string              `json:"purpose" validate:"max=2000"`
	Department  string              `json:"department" validate:"max=255"`
	UseCase     string              `json:"use_case" validate:"max=2000"`
	OwnerID     *uint               `json:"owner_id"`
	RiskTier    *model.RiskTier     `json:"risk_tier"`
	Status      *model.SystemStatus `json:"status"`
	DeployedAt  *time.Time          `json:"deployed_at"`
}

func (req *systemRequest) apply(sys *model.AISystem) {
	sys.Name = req.Name
	sys.Description = req.Description
	sys.Vendor = req.Vendor
	sys.Purpose = req.Purpose
	sys.Department = req.Department
	sys.UseCase = req.UseCase
	sys.OwnerID = req.OwnerID
	sys.RiskTier = req.RiskTier
	if req.Status != nil {
		sys.Status = *req.Status
	}
	sys.DeployedAt = req.DeployedAt
	if sys.Status == model.SystemStatusDeployed && sys.DeployedAt == nil {
		now := time.Now().UTC()
		sys.DeployedAt = &now
	}
}

// ClassificationResponse is returned when a stored system is classified.
type ClassificationResponse struct {
	System *model.AISystem  `json:"system"`
	Result riskclass.Result `json:"result"`
}

func RegisterSystemsEndpoints(s *server.Server) {
	lggr := s.Logger.Named("systems")
	systems := s.SystemsStore
	activities := s.ActivitiesStore

	s.API.HandleFunc("/systems", handleListSystems(systems, lggr)).Methods("GET")
	s.API.Handle("/systems", middleware.RequireWriter(handleCreateSystem(systems, activities, lggr))).Methods("POST")
	s.API.HandleFunc("/systems/classify", handleClassify()).Methods("POST")
	s.API.HandleFunc("/systems/{id:[0-9]+}", handleGetSystem(systems, lggr)).Methods("GET")
	s.API.Handle("/systems/{id:[0-9]+}", middleware.RequireWriter(handleUpdateSystem(systems, activities, lggr))).Methods("PUT")
	s.API.Handle("/systems/{id:[0-9]+}", middleware.RequireWriter(handleDeleteSystem(systems, activities, lggr))).Methods("DELETE")
	s.API.Handle("/systems/{id:[0-9]+}/classify", middleware.RequireWriter(handleClassifySystem(systems, activities, lggr))).Methods("POST")
}

func systemFilterFromQuery(r *http.Request) (store.SystemFilter, error) {
	q := r.URL.Query()
	filter := store.SystemFilter{Search: q.Get("search"), Page: pageFromQuery(r)}

	if raw := q.Get("risk_tier"); raw != "" {
		if raw == "unclassified" {
			filter.Unclassified = true
		} else {
			tier, err := model.RiskTierString(raw)
			if err != nil {
				return filter, apperror.New(apperror.Validation, fmt.Sprintf("unknown risk_tier %q", raw))
			}
			filter.RiskTier = &tier
		}
	}
	if raw := q.Get("status"); raw != "" {
		status, err := model.SystemStatusString(raw)
		if err != nil {
			return filter, apperror.New(apperror.Validation, fmt.Sprintf("unknown status %q", raw))
		}
		filter.Status = &status
	}
	return filter, nil
}

func handleListSystems(systems store.SystemsStore, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := systemFilterFromQuery(r)
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}
		list, err := systems.ListSystems(r.Context(), filter)
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}
		respondWithJSON(w, http.StatusOK, list)
	}
}

func handleGetSystem(systems store.SystemsStore, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, "invalid id")
			return
		}
		sys, err := systems.GetSystem(r.Context(), id)
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}
		respondWithJSON(w, http.StatusOK, sys)
	}
}

func handleCreateSystem(systems store.SystemsStore, activities store.ActivitiesStore, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req systemRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		id := caller(r)

		sys := &model.AISystem{}
		req.apply(sys)
		if sys.OwnerID == nil {
			sys.OwnerID = &id.UserID
		}

		err := systems.CreateSystem(r.Context(), sys)
		audit.Log(audit.SystemEvent("create", sys.ID, sys.Name, id.Email, clientIP(id), err == nil, errString(err)))
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}

		recordActivity(r, activities, lggr, model.NewActivity(id.UserID, "created", model.EntitySystem, sys.ID, "AI system "+sys.Name+" registered"))
		respondWithJSON(w, http.StatusCreated, sys)
	}
}

func handleUpdateSystem(systems store.SystemsStore, activities store.ActivitiesStore, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sysID, ok := pathID(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, "invalid id")
			return
		}
		var req systemRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		id := caller(r)

		sys, err := systems.GetSystem(r.Context(), sysID)
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}
		req.apply(sys)

		err = systems.UpdateSystem(r.Context(), sys)
		audit.Log(audit.SystemEvent("update", sys.ID, sys.Name, id.Email, clientIP(id), err == nil, errString(err)))
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}

		recordActivity(r, activities, lggr, model.NewActivity(id.UserID, "updated", model.EntitySystem, sys.ID, "AI system "+sys.Name+" updated"))
		respondWithJSON(w, http.StatusOK, sys)
	}
}

func handleDeleteSystem(systems store.SystemsStore, activities store.ActivitiesStore, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sysID, ok := pathID(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, "invalid id")
			return
		}
		id := caller(r)

		err := systems.DeleteSystem(r.Context(), sysID)
		audit.Log(audit.SystemEvent("delete", sysID, "", id.Email, clientIP(id), err == nil, errString(err)))
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}

		recordActivity(r, activities, lggr, model.NewActivity(id.UserID, "deleted", model.EntitySystem, 0, fmt.Sprintf("AI system %d deleted", sysID)))
		w.WriteHeader(http.StatusNoContent)
	}
}

func decodeQuestionnaire(w http.ResponseWriter, r *http.Request) (riskclass.Questionnaire, bool) {
	var q riskclass.Questionnaire
	if !decodeJSON(w, r, &q) {
		return q, false
	}
	if err := q.Validate(); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return q, false
	}
	return q, true
}

func handleClassify() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, ok := decodeQuestionnaire(w, r)
		if !ok {
			return
		}
		respondWithJSON(w, http.StatusOK, riskclass.Classify(q))
	}
}

func handleClassifySystem(systems store.SystemsStore, activities store.ActivitiesStore, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sysID, ok := pathID(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, "invalid id")
			return
		}
		q, ok := decodeQuestionnaire(w, r)
		if !ok {
			return
		}
		id := caller(r)

		sys, err := systems.GetSystem(r.Context(), sysID)
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}

		result := riskclass.Classify(q)
		err = systems.SetRiskTier(r.Context(), sys.ID, result.Tier)
		audit.Log(audit.SystemEvent("classify", sys.ID, sys.Name, id.Email, clientIP(id), err == nil, errString(err)))
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}
		sys.RiskTier = &result.Tier

		recordActivity(r, activities, lggr, model.NewActivity(id.UserID, "classified", model.EntitySystem, sys.ID,
			fmt.Sprintf("AI system %s classified as %s risk", sys.Name, result.Tier)))
		respondWithJSON(w, http.StatusOK, ClassificationResponse{System: sys, Result: result})
	}
}
