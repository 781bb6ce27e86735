package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/audit"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/auth"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/logger"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/middleware"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

type createUserRequest struct {
	Email      string     `json:"email" validate:"required,email,max=255"`
	Name       string     `json:"name" validate:"required,max=255"`
	Password   string     `json:"password" validate:"required,min=8,max=72"`
	Role       model.Role `json:"role"`
	Department string     `json:"department" validate:"max=255"`
}

// RegisterUsersEndpoints registers the admin-only account endpoints.
func RegisterUsersEndpoints(s *server.Server) {
	lggr := s.Logger.Named("users")

	s.API.Handle("/users", middleware.RequireAdmin(handleListUsers(s.UsersStore, lggr))).Methods("GET")
	s.API.Handle("/users", middleware.RequireAdmin(handleCreateUser(s.UsersStore, s.ActivitiesStore, lggr))).Methods("POST")
}

func handleListUsers(users store.UsersStore, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := users.ListUsers(r.Context(), pageFromQuery(r))
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}
		respondWithJSON(w, http.StatusOK, list)
	}
}

func handleCreateUser(users store.UsersStore, activities store.ActivitiesStore, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := createUserRequest{Role: model.RoleViewer}
		if !decodeJSON(w, r, &req) {
			return
		}
		id := caller(r)

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		user := &model.User{
			Email:        req.Email,
			Name:         req.Name,
			PasswordHash: hash,
			Role:         req.Role,
			Department:   req.Department,
			IsActive:     true,
		}
		err = users.CreateUser(r.Context(), user)
		audit.Log(audit.UserEvent("create", user.ID, model.NormalizeEmail(req.Email), id.Email, clientIP(id), err == nil, errString(err)))
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}

		recordActivity(r, activities, lggr, model.NewActivity(id.UserID, "created", model.EntityUser, user.ID, "User "+user.Email+" created"))
		respondWithJSON(w, http.StatusCreated, user)
	}
}
