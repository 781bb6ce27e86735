package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/apperror"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/audit"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/config"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/logger"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/middleware"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

type assessmentRequest struct {
	SystemID    uint                    `json:"system_id" validate:"required"`
	AssessorID  *uint                   `json:"assessor_id"`
	Status      *model.AssessmentStatus `json:"status"`
	RiskTier    *model.RiskTier         `json:"risk_tier"`
	Score       int                     `json:"score" validate:"min=0,max=100"`
	Findings    string                  `json:"findings" validate:"max=20000"`
	Mitigations string                  `json:"mitigations" validate:"max=20000"`
}

func RegisterAssessmentsEndpoints(s *server.Server) {
	lggr := s.Logger.Named("assessments")
	assessments := s.AssessmentsStore
	systems := s.SystemsStore
	activities := s.ActivitiesStore

	s.API.HandleFunc("/assessments", handleListAssessments(assessments, lggr)).Methods("GET")
	s.API.Handle("/assessments", middleware.RequireWriter(handleCreateAssessment(assessments, systems, activities, lggr))).Methods("POST")
	s.API.HandleFunc("/assessments/{id:[0-9]+}", handleGetAssessment(assessments, lggr)).Methods("GET")
	s.API.Handle("/assessments/{id:[0-9]+}", middleware.RequireWriter(handleUpdateAssessment(assessments, activities, lggr))).Methods("PUT")
	s.API.Handle("/assessments/{id:[0-9]+}", middleware.RequireWriter(handleDeleteAssessment(assessments, activities, lggr))).Methods("DELETE")
	s.API.Handle("/assessments/{id:[0-9]+}/complete", middleware.RequireWriter(handleCompleteAssessment(assessments, activities, s.Config, lggr))).Methods("POST")
}

func handleListAssessments(assessments store.AssessmentsStore, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := store.AssessmentFilter{Page: pageFromQuery(r)}
		systemID, err := queryUint(r, "system_id")
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}
		filter.SystemID = systemID
		if raw := r.URL.Query().Get("status"); raw != "" {
			status, err := model.AssessmentStatusString(raw)
			if err != nil {
				respondWithStoreError(w, r, lggr, apperror.New(apperror.Validation, fmt.Sprintf("unknown status %q", raw)))
				return
			}
			filter.Status = &status
		}

		list, err := assessments.ListAssessments(r.Context(), filter)
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}
		respondWithJSON(w, http.StatusOK, list)
	}
}

func handleGetAssessment(assessments store.AssessmentsStore, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, "invalid id")
			return
		}
		a, err := assessments.GetAssessment(r.Context(), id)
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}
		respondWithJSON(w, http.StatusOK, a)
	}
}

func handleCreateAssessment(assessments store.AssessmentsStore, systems store.SystemsStore, activities store.ActivitiesStore, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req assessmentRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		id := caller(r)

		sys, err := systems.GetSystem(r.Context(), req.SystemID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondWithError(w, http.StatusBadRequest, fmt.Sprintf("system %d does not exist", req.SystemID))
				return
			}
			respondWithStoreError(w, r, lggr, err)
			return
		}

		a := &model.RiskAssessment{
			SystemID:    sys.ID,
			AssessorID:  req.AssessorID,
			RiskTier:    req.RiskTier,
			Score:       req.Score,
			Findings:    req.Findings,
			Mitigations: req.Mitigations,
		}
		if a.AssessorID == nil {
			a.AssessorID = &id.UserID
		}
		if req.Status != nil && *req.Status != model.AssessmentStatusCompleted {
			a.Status = *req.Status
		}

		err = assessments.CreateAssessment(r.Context(), a)
		audit.Log(audit.AssessmentEvent("create", a.ID, id.Email, clientIP(id), err == nil, errString(err)))
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}

		recordActivity(r, activities, lggr, model.NewActivity(id.UserID, "created", model.EntityAssessment, a.ID, "Risk assessment started for "+sys.Name))
		respondWithJSON(w, http.StatusCreated, a)
	}
}

func handleUpdateAssessment(assessments store.AssessmentsStore, activities store.ActivitiesStore, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		aID, ok := pathID(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, "invalid id")
			return
		}
		var req assessmentRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		id := caller(r)

		a, err := assessments.GetAssessment(r.Context(), aID)
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}
		if req.AssessorID != nil {
			a.AssessorID = req.AssessorID
		}
		// completion goes through /complete so the review date is scheduled
		if req.Status != nil && *req.Status != model.AssessmentStatusCompleted {
			a.Status = *req.Status
		}
		a.RiskTier = req.RiskTier
		a.Score = req.Score
		a.Findings = req.Findings
		a.Mitigations = req.Mitigations

		err = assessments.UpdateAssessment(r.Context(), a)
		audit.Log(audit.AssessmentEvent("update", a.ID, id.Email, clientIP(id), err == nil, errString(err)))
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}

		recordActivity(r, activities, lggr, model.NewActivity(id.UserID, "updated", model.EntityAssessment, a.ID, fmt.Sprintf("Risk assessment %d updated", a.ID)))
		respondWithJSON(w, http.StatusOK, a)
	}
}

func handleDeleteAssessment(assessments store.AssessmentsStore, activities store.ActivitiesStore, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		aID, ok := pathID(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, "invalid id")
			return
		}
		id := caller(r)

		err := assessments.DeleteAssessment(r.Context(), aID)
		audit.Log(audit.AssessmentEvent("delete", aID, id.Email, clientIP(id), err == nil, errString(err)))
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}

		recordActivity(r, activities, lggr, model.NewActivity(id.UserID, "deleted", model.EntityAssessment, 0, fmt.Sprintf("Risk assessment %d deleted", aID)))
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleCompleteAssessment(assessments store.AssessmentsStore, activities store.ActivitiesStore, cfg func() *config.Config, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		aID, ok := pathID(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, "invalid id")
			return
		}
		id := caller(r)

		a, err := assessments.CompleteAssessment(r.Context(), aID, time.Now().UTC(), cfg().AssessmentReviewMonths)
		audit.Log(audit.AssessmentEvent("complete", aID, id.Email, clientIP(id), err == nil, errString(err)))
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}

		recordActivity(r, activities, lggr, model.NewActivity(id.UserID, "completed", model.EntityAssessment, a.ID, fmt.Sprintf("Risk assessment %d completed", a.ID)))
		respondWithJSON(w, http.StatusOK, a)
	}
}
