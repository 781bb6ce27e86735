package endpoints

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/auth"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

func TestUsersEndpoints(t *testing.T) {
	t.Run("non-admins cannot list users", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do("GET", "/api/users", nil, officerUser)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin lists users with paging", func(t *testing.T) {
		env := newTestEnv(t)
		env.users.On("ListUsers", store.Page{Limit: 10, Offset: 20}).Return([]model.User{*viewerUser}, nil).Once()

		w := env.do("GET", "/api/users?limit=10&offset=20", nil, adminUser)

		require.Equal(t, http.StatusOK, w.Code)
		var users []model.User
		decodeBody(t, w, &users)
		assert.Len(t, users, 1)
	})

	t.Run("admin creates a user with a hashed password", func(t *testing.T) {
		env := newTestEnv(t)
		env.allowActivities()
		env.users.On("CreateUser", mock.MatchedBy(func(u *model.User) bool {
			return u.Email == "New@Example.com" &&
				u.Role == model.RoleComplianceOfficer &&
				u.IsActive &&
				auth.CheckPassword(u.PasswordHash, "s3cure-pass") == nil
		})).Run(func(args mock.Arguments) {
			u := args.Get(0).(*model.User)
			u.ID = 42
			u.Email = model.NormalizeEmail(u.Email)
		}).Return(nil).Once()

		w := env.do("POST", "/api/users", map[string]string{
			"email":    "New@Example.com",
			"name":     "New Officer",
			"password": "s3cure-pass",
			"role":     "compliance_officer",
		}, adminUser)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var user model.User
		decodeBody(t, w, &user)
		assert.Equal(t, uint(42), user.ID)
		assert.Equal(t, "new@example.com", user.Email)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		env := newTestEnv(t)
		env.users.On("CreateUser", mock.Anything).Return(fmt.Errorf("%w: users_email_key", store.ErrConflict)).Once()

		w := env.do("POST", "/api/users", map[string]string{
			"email":    "viewer@example.com",
			"name":     "Dup",
			"password": "s3cure-pass",
		}, adminUser)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do("POST", "/api/users", map[string]string{
			"email":    "x@example.com",
			"name":     "X",
			"password": "s3cure-pass",
			"role":     "superuser",
		}, adminUser)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("short password is rejected", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do("POST", "/api/users", map[string]string{
			"email":    "x@example.com",
			"name":     "X",
			"password": "short",
		}, adminUser)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, errorMessage(t, w), "password")
	})
}
