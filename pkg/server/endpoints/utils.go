package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/apperror"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/identity"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/logger"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

var validate = validator.New()

func respondWithError(w http.ResponseWriter, code int, payload interface{}) {
	respondWithJSON(w, code, map[string]interface{}{"error": payload})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// classify maps store sentinels onto the application error taxonomy.
func classify(err error) *apperror.AppError {
	var appErr *apperror.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, store.ErrNotFound):
		return apperror.Wrap(apperror.NotFound, "not found", err)
	case errors.Is(err, store.ErrConflict):
		return apperror.Wrap(apperror.Conflict, "already exists", err)
	case errors.Is(err, store.ErrDecided):
		return apperror.Wrap(apperror.Conflict, "approval item is already decided", err)
	case errors.Is(err, store.ErrCompleted):
		return apperror.Wrap(apperror.Conflict, "assessment is already completed", err)
	case errors.Is(err, store.ErrNotAssigned):
		return apperror.Wrap(apperror.Forbidden, "not an assigned approver", err)
	case errors.Is(err, store.ErrInvalidCredentials):
		return apperror.Wrap(apperror.Unauthorized, "invalid email or password", err)
	}
	return apperror.Wrap(apperror.Internal, "internal server error", err)
}

// respondWithStoreError writes err with the status of its category.
// Internal errors are logged and reported generically.
func respondWithStoreError(w http.ResponseWriter, r *http.Request, lggr logger.Logger, err error) {
	appErr := classify(err)
	code := apperror.HTTPStatus(appErr)
	if code >= http.StatusInternalServerError {
		lggr.Errorw("Request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	respondWithError(w, code, appErr.Message)
}

// decodeJSON reads the request body into dst and validates it. It writes
// the error response itself and reports whether the handler may go on.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondWithError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		respondWithError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email address")
		case "oneof":
			msgs = append(msgs, field+" must be one of: "+fe.Param())
		case "min", "max":
			msgs = append(msgs, field+" must satisfy "+fe.Tag()+"="+fe.Param())
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}

// pathID parses the {id} route variable.
func pathID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// queryUint parses an optional numeric query parameter.
func queryUint(r *http.Request, name string) (*uint, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, apperror.New(apperror.Validation, name+" must be a positive integer")
	}
	id := uint(v)
	return &id, nil
}

// pageFromQuery reads limit and offset; invalid values fall back to the defaults.
func pageFromQuery(r *http.Request) store.Page {
	var page store.Page
	q := r.URL.Query()
	if l, err := strconv.Atoi(q.Get("limit")); err == nil {
		page.Limit = l
	}
	if o, err := strconv.Atoi(q.Get("offset")); err == nil {
		page.Offset = o
	}
	return page.Normalize()
}

// caller returns the authenticated identity. Routes on the API subrouter
// always carry one.
func caller(r *http.Request) *identity.Identity {
	id, ok := identity.Get(r.Context())
	if !ok {
		return &identity.Identity{}
	}
	return id
}

func clientIP(id *identity.Identity) string {
	if id.RemoteIP == nil {
		return ""
	}
	return id.RemoteIP.String()
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// recordActivity appends to the activity feed. Failures are logged and
// never fail the request.
func recordActivity(r *http.Request, activities store.ActivitiesStore, lggr logger.Logger, a *model.Activity) {
	if err := activities.Record(r.Context(), a); err != nil {
		lggr.Warnw("Failed to record activity", "action", a.Action, "entity_type", a.EntityType, "err", err)
	}
}
