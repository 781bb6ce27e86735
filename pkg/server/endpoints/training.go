package endpoints

import (
	"errors"
	"net/http"
	"time"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/glossary"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/logger"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/middleware"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

type moduleRequest struct {
	Title           string `json:"title" validate:"required,max=255"`
	Description     string `json:"description" validate:"max=2000"`
	Content         string `json:"content"`
	DurationMinutes int    `json:"duration_minutes" validate:"min=0"`
	RequiredRoles   string `json:"required_roles" validate:"max=255"`
	Position        int    `json:"position"`
	IsPublished     bool   `json:"is_published"`
}

func (req *moduleRequest) apply(m *model.TrainingModule) {
	m.Title = req.Title
	m.Description = req.Description
	m.Content = req.Content
	m.DurationMinutes = req.DurationMinutes
	m.RequiredRoles = req.RequiredRoles
	m.Position = req.Position
	m.IsPublished = req.IsPublished
}

type progressRequest struct {
	Progress int  `json:"progress"`
	Score    *int `json:"score" validate:"omitempty,min=0,max=100"`
}

// ModuleView is a training module with the caller's progress.
type ModuleView struct {
	model.TrainingModule
	Required    bool                    `json:"required"`
	Progress    *model.TrainingProgress `json:"progress"`
	ContentHTML string                  `json:"content_html,omitempty"`
}

func RegisterTrainingEndpoints(s *server.Server) {
	lggr := s.Logger.Named("training")
	training := s.TrainingStore
	activities := s.ActivitiesStore

	s.API.HandleFunc("/training/modules", handleListModules(training, lggr)).Methods("GET")
	s.API.Handle("/training/modules", middleware.RequireAdmin(handleCreateModule(training, activities, lggr))).Methods("POST")
	s.API.HandleFunc("/training/modules/{id:[0-9]+}", handleGetModule(training, lggr)).Methods("GET")
	s.API.Handle("/training/modules/{id:[0-9]+}", middleware.RequireAdmin(handleUpdateModule(training, activities, lggr))).Methods("PUT")
	s.API.Handle("/training/modules/{id:[0-9]+}", middleware.RequireAdmin(handleDeleteModule(training, activities, lggr))).Methods("DELETE")
	s.API.HandleFunc("/training/modules/{id:[0-9]+}/progress", handleSaveProgress(training, activities, lggr)).Methods("POST")
	s.API.HandleFunc("/training/summary", handleTrainingSummary(training, lggr)).Methods("GET")
}

func handleListModules(training store.TrainingStore, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := caller(r)

		modules, err := training.ListModules(r.Context(), id.IsAdmin())
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}
		progress, err := training.ListProgress(r.Context(), id.UserID)
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}
		byModule := make(map[uint]*model.TrainingProgress, len(progress))
		for i := range progress {
			byModule[progress[i].ModuleID] = &progress[i]
		}

		views := make([]ModuleView, 0, len(modules))
		for _, m := range modules {
			views = append(views, ModuleView{
				TrainingModule: m,
				Required:       m.IsRequiredFor(id.Role),
				Progress:       byModule[m.ID],
			})
		}
		respondWithJSON(w, http.StatusOK, views)
	}
}

// visibleModule loads a module, hiding drafts from non-admins.
func visibleModule(r *http.Request, training store.TrainingStore, moduleID uint) (*model.TrainingModule, error) {
	m, err := training.GetModule(r.Context(), moduleID)
	if err != nil {
		return nil, err
	}
	if !m.IsPublished && !caller(r).IsAdmin() {
		return nil, store.ErrNotFound
	}
	return m, nil
}

func handleGetModule(training store.TrainingStore, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		moduleID, ok := pathID(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, "invalid id")
			return
		}
		id := caller(r)

		m, err := visibleModule(r, training, moduleID)
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}
		html, err := glossary.RenderHTML(m.Content)
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}

		view := ModuleView{TrainingModule: *m, Required: m.IsRequiredFor(id.Role), ContentHTML: html}
		p, err := training.GetProgress(r.Context(), id.UserID, m.ID)
		switch {
		case err == nil:
			view.Progress = p
		case !errors.Is(err, store.ErrNotFound):
			respondWithStoreError(w, r, lggr, err)
			return
		}
		respondWithJSON(w, http.StatusOK, view)
	}
}

func handleCreateModule(training store.TrainingStore, activities store.ActivitiesStore, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req moduleRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		m := &model.TrainingModule{}
		req.apply(m)

		if err := training.CreateModule(r.Context(), m); err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}
		recordActivity(r, activities, lggr, model.NewActivity(caller(r).UserID, "created", model.EntityTraining, m.ID, "Training module "+m.Title+" created"))
		respondWithJSON(w, http.StatusCreated, m)
	}
}

func handleUpdateModule(training store.TrainingStore, activities store.ActivitiesStore, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		moduleID, ok := pathID(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, "invalid id")
			return
		}
		var req moduleRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		m, err := training.GetModule(r.Context(), moduleID)
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}
		req.apply(m)

		if err := training.UpdateModule(r.Context(), m); err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}
		recordActivity(r, activities, lggr, model.NewActivity(caller(r).UserID, "updated", model.EntityTraining, m.ID, "Training module "+m.Title+" updated"))
		respondWithJSON(w, http.StatusOK, m)
	}
}

func handleDeleteModule(training store.TrainingStore, activities store.ActivitiesStore, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		moduleID, ok := pathID(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, "invalid id")
			return
		}
		if err := training.DeleteModule(r.Context(), moduleID); err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}
		recordActivity(r, activities, lggr, model.NewActivity(caller(r).UserID, "deleted", model.EntityTraining, 0, "Training module deleted"))
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleSaveProgress(training store.TrainingStore, activities store.ActivitiesStore, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		moduleID, ok := pathID(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, "invalid id")
			return
		}
		var req progressRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		id := caller(r)

		m, err := visibleModule(r, training, moduleID)
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}

		p, err := training.GetProgress(r.Context(), id.UserID, m.ID)
		if errors.Is(err, store.ErrNotFound) {
			p = &model.TrainingProgress{UserID: id.UserID, ModuleID: m.ID}
		} else if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}

		wasCompleted := p.Status == model.ProgressStatusCompleted
		p.Advance(req.Progress, req.Score, time.Now().UTC())
		if err := training.SaveProgress(r.Context(), p); err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}

		if !wasCompleted && p.Status == model.ProgressStatusCompleted {
			recordActivity(r, activities, lggr, model.NewActivity(id.UserID, "completed", model.EntityTraining, m.ID, id.Email+" completed "+m.Title))
		}
		respondWithJSON(w, http.StatusOK, p)
	}
}

func handleTrainingSummary(training store.TrainingStore, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := training.Summary(r.Context())
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}
		respondWithJSON(w, http.StatusOK, summary)
	}
}
