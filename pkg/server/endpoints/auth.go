package endpoints

import (
	"errors"
	"net/http"
	"time"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/audit"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/auth"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/logger"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/middleware"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

func RegisterAuthEndpoints(s *server.Server) {
	lggr := s.Logger.Named("auth")

	// POST /api/auth/login is exempt from token authentication
	s.API.HandleFunc("/auth/login", handleLogin(s.UsersStore, s.ActivitiesStore, s.Issuer, lggr)).Methods("POST")
	s.API.HandleFunc("/auth/me", handleMe(s.UsersStore, lggr)).Methods("GET")
}

func handleLogin(users store.UsersStore, activities store.ActivitiesStore, issuer *auth.Issuer, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		ip := middleware.ClientIP(r)

		user, err := users.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			audit.Log(audit.LoginEvent{
				Email:        model.NormalizeEmail(req.Email),
				ClientIP:     ip,
				Success:      false,
				ErrorMessage: err.Error(),
			})
			if errors.Is(err, store.ErrInvalidCredentials) {
				respondWithError(w, http.StatusUnauthorized, "invalid email or password")
				return
			}
			respondWithStoreError(w, r, lggr, err)
			return
		}

		token, expiresAt, err := issuer.Issue(user)
		if err != nil {
			lggr.Errorw("Failed to issue token", "user_id", user.ID, "err", err)
			respondWithError(w, http.StatusInternalServerError, "failed to issue token")
			return
		}

		now := time.Now().UTC()
		if err := users.TouchLogin(r.Context(), user.ID, now); err != nil {
			lggr.Warnw("Failed to record login time", "user_id", user.ID, "err", err)
		}
		user.LastLoginAt = &now

		audit.Log(audit.LoginEvent{Email: user.Email, UserID: user.ID, ClientIP: ip, Success: true})
		recordActivity(r, activities, lggr, model.NewActivity(user.ID, "login", model.EntityUser, user.ID, user.Email+" signed in"))

		respondWithJSON(w, http.StatusOK, LoginResponse{Token: token, ExpiresAt: expiresAt, User: user})
	}
}

func handleMe(users store.UsersStore, lggr logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := users.GetUser(r.Context(), caller(r).UserID)
		if err != nil {
			respondWithStoreError(w, r, lggr, err)
			return
		}
		respondWithJSON(w, http.StatusOK, user)
	}
}
