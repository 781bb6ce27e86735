package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/apperror"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

func TestClassifyStoreError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("system 4: %w", store.ErrNotFound), http.StatusNotFound},
		{"conflict", store.ErrConflict, http.StatusConflict},
		{"decided", store.ErrDecided, http.StatusConflict},
		{"completed", store.ErrCompleted, http.StatusConflict},
		{"not assigned", store.ErrNotAssigned, http.StatusForbidden},
		{"bad credentials", store.ErrInvalidCredentials, http.StatusUnauthorized},
		{"app error passes through", apperror.New(apperror.Validation, "bad input"), http.StatusBadRequest},
		{"anything else", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperror.HTTPStatus(classify(tt.err)))
		})
	}
}

func TestPageFromQuery(t *testing.T) {
	tests := []struct {
		query string
		want  store.Page
	}{
		{"", store.Page{Limit: store.DefaultLimit}},
		{"limit=5&offset=10", store.Page{Limit: 5, Offset: 10}},
		{"limit=abc&offset=-1", store.Page{Limit: store.DefaultLimit}},
		{"limit=100000", store.Page{Limit: store.MaxLimit}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/systems?"+tt.query, nil)
			assert.Equal(t, tt.want, pageFromQuery(r))
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	t.Run("oversized body", func(t *testing.T) {
		env := newTestEnv(t)
		body := `{"question":"` + strings.Repeat("a", 2<<20) + `"}`

		w := env.do("POST", "/api/assistant/ask", body, viewerUser)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do("POST", "/api/assistant/ask", `{"question":`, viewerUser)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, errorMessage(t, w), "invalid JSON")
	})

	t.Run("validation messages", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do("POST", "/api/auth/login", `{"email":"not-an-email"}`, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		msg := errorMessage(t, w)
		assert.Contains(t, msg, "email must be a valid email address")
		assert.Contains(t, msg, "password is required")
	})
}
