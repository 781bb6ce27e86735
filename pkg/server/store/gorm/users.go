package gorm

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/auth"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/store"
)

var _ store.UsersStore = (*UsersStore)(nil)

// dummyHash is compared against when the email is unknown so that both
// failure paths cost one bcrypt comparison.
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOa3kKxCQ8Y0p0wL3p3/7G6G1k6QKJ9mS"

// UsersStore implements store.UsersStore using GORM
type UsersStore struct {
	db *gorm.DB
}

// NewUsersStore creates a new UsersStore
func NewUsersStore(db *gorm.DB) *UsersStore {
	return &UsersStore{db: db}
}

func (s *UsersStore) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = auth.CheckPassword(dummyHash, password)
			return nil, store.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, store.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, store.ErrInvalidCredentials
	}
	return user, nil
}

func (s *UsersStore) GetUser(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := first(s.db, ctx, &user, id); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UsersStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	tx := withCtx(s.db, ctx).Where("email = ?", model.NormalizeEmail(email)).First(&user)
	if tx.Error != nil {
		return nil, translate(tx.Error)
	}
	return &user, nil
}

func (s *UsersStore) ListUsers(ctx context.Context, page store.Page) ([]model.User, error) {
	var users []model.User
	tx := withCtx(s.db, ctx).Scopes(paginate(page)).Order("id").Find(&users)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return users, nil
}

func (s *UsersStore) CreateUser(ctx context.Context, user *model.User) error {
	return translate(withCtx(s.db, ctx).Create(user).Error)
}

func (s *UsersStore) TouchLogin(ctx context.Context, id uint, at time.Time) error {
	return withCtx(s.db, ctx).Model(&model.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}
