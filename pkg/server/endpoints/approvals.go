package endpoints

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/apperror"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/audit"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/logger"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/middleware"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

type createApprovalRequest struct {
	Title       string             `json:"title" validate:"required,max=255"`
	Description string             `json:"description" validate:"max=5000"`
	ItemType    model.ApprovalType `json:"item_type"`
	SystemID    *uint              `json:"system_id"`
	Priority    model.Priority     `json:"priority"`
	DueAt       *time.Time         `json:"due_at"`
	Approvers   []uint             `json:"approvers"`
}

type assignRequest struct {
	ApproverIDs []uint `json:"approver_ids" validate:"required,min=1,dive,gt=0"`
}

type decisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
	Comment  string `json:"comment" validate:"max=5000"`
}

type commentRequest struct {
	Comment string `json:"comment" validate:"required,max=5000"`
}

func RegisterApprovalsEndpoints(s *server.Server) {
	lggr := s.Logger.Named("approvals")
	approvals := s.ApprovalsStore
	activities := s.ActivitiesStore

	s.API.HandleFunc("/approvals", handleListApprovals(approvals, lggr)).Methods("GET")
	s.API.Handle("/approvals", middleware.RequireWriter(handleCreateApproval(approvals, activities, lggr))).Methods("POST")
	s.API.HandleFunc("/approvals/{id:[0-9]+}", handleGetApproval(approvals, lggr)).Methods("GET")
	s.API.Handle("/approvals/{id:[0-9]+}/assign", middleware.RequireWriter(handleAssignApprovers(approvals, activities, lggr))).Methods("POST")
	s.API.HandleFunc("/approvals/{id:[0-9]+}/decision", handleDecide(approvals, activities, lggr)).Methods("POST")
	s.API.HandleFunc("/approvals/{id:[0-9]+}/comments", handleAddComment(approvals, lggr)).Methods("POST")
}

func handleListApprovals(approvals store.ApprovalsStore, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := store.ApprovalFilter{Page: pageFromQuery(r)}
		if raw := q.Get("status"); raw != "" {
			status, err := model.ApprovalStatusString(raw)
			if err != nil {
				respondWithStoreError(w, r, lggr, apperror.New(apperror.Validation, fmt.Sprintf("unknown status %q", raw)))
				return
			}
			filter.Status = &status
		}
		if q.Get("assigned") == "me" {
			userID := caller(r).UserID
			filter.AssignedTo = &userID
		}

		items, err := approvals.ListApprovals(r.Context(), filter)
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}
		respondWithJSON(w, http.StatusOK, items)
	}
}

func handleGetApproval(approvals store.ApprovalsStore, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, ok := pathID(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, "invalid id")
			return
		}
		detail, err := approvals.GetApproval(r.Context(), itemID)
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}
		respondWithJSON(w, http.StatusOK, detail)
	}
}

func handleCreateApproval(approvals store.ApprovalsStore, activities store.ActivitiesStore, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := createApprovalRequest{Priority: model.PriorityMedium}
		if !decodeJSON(w, r, &req) {
			return
		}
		id := caller(r)

		item := &model.ApprovalItem{
			Title:       req.Title,
			Description: req.Description,
			ItemType:    req.ItemType,
			SystemID:    req.SystemID,
			RequestedBy: id.UserID,
			Status:      model.ApprovalStatusPending,
			Priority:    req.Priority,
			DueAt:       req.DueAt,
		}
		if err := approvals.CreateApproval(r.Context(), item); err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}
		if len(req.Approvers) > 0 {
			if _, err := approvals.Assign(r.Context(), item.ID, id.UserID, req.Approvers); err != nil {
				respondWithStoreError(w, r, lggr, err)
				return
			}
		}
		recordActivity(r, activities, lggr, model.NewActivity(id.UserID, "created", model.EntityApproval, item.ID, "Approval requested: "+item.Title))

		detail, err := approvals.GetApproval(r.Context(), item.ID)
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, detail)
	}
}

func handleAssignApprovers(approvals store.ApprovalsStore, activities store.ActivitiesStore, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, ok := pathID(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, "invalid id")
			return
		}
		var req assignRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		id := caller(r)

		added, err := approvals.Assign(r.Context(), itemID, id.UserID, req.ApproverIDs)
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}
		if len(added) > 0 {
			recordActivity(r, activities, lggr, model.NewActivity(id.UserID, "assigned", model.EntityApproval, itemID,
				fmt.Sprintf("%d approver(s) assigned to approval %d", len(added), itemID)))
		}
		respondWithJSON(w, http.StatusOK, added)
	}
}

func handleDecide(approvals store.ApprovalsStore, activities store.ActivitiesStore, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, ok := pathID(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, "invalid id")
			return
		}
		var req decisionRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		id := caller(r)
		decision, _ := model.DecisionString(req.Decision)

		detail, err := approvals.Decide(r.Context(), store.DecisionInput{
			ItemID:     itemID,
			ApproverID: id.UserID,
			Decision:   decision,
			Comment:    strings.TrimSpace(req.Comment),
			Override:   id.IsAdmin(),
			DecidedAt:  time.Now().UTC(),
		})

		event := audit.ApprovalDecisionEvent{
			ItemID:        itemID,
			ApproverEmail: id.Email,
			ClientIP:      clientIP(id),
			Decision:      decision.String(),
			Success:       err == nil,
			ErrorMessage:  errString(err),
		}
		if detail != nil {
			event.Title = detail.Item.Title
			event.ItemStatus = detail.Item.Status.String()
		}
		audit.Log(event)

		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}

		recordActivity(r, activities, lggr, model.NewActivity(id.UserID, decision.String(), model.EntityApproval, itemID,
			fmt.Sprintf("%s %s %q", id.Email, decision, detail.Item.Title)))
		respondWithJSON(w, http.StatusOK, detail)
	}
}

func handleAddComment(approvals store.ApprovalsStore, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, ok := pathID(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, "invalid id")
			return
		}
		var req commentRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		entry, err := approvals.AddComment(r.Context(), itemID, caller(r).UserID, strings.TrimSpace(req.Comment))
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, entry)
	}
}
