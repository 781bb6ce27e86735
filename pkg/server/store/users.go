package store

import (
	"context"
	"time"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
)

// UsersStore abstracts user account storage
type UsersStore interface {
	// Authenticate returns the active user matching email and password.
	// Unknown emails, wrong passwords and inactive users all yield
	// ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, password string) (*model.User, error)

	GetUser(ctx context.Context, id uint) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context, page Page) ([]model.User, error)

	// CreateUser inserts user; a duplicate email yields ErrConflict.
	CreateUser(ctx context.Context, user *model.User) error

	// TouchLogin records a successful login.
	TouchLogin(ctx context.Context, id uint, at time.Time) error
}
