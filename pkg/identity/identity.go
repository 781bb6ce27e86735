package identity

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/auth"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
)

type contextKey struct{}

// Identity is the signed-in user behind a request.
type Identity struct {
	UserID    uint
	Email     string
	Role      model.Role
	IssuedAt  time.Time
	ExpiresAt time.Time

	RemoteIP  net.IP
	RequestID string
}

// FromClaims builds an Identity from verified token claims. The caller
// fills in the request fields.
func FromClaims(c *auth.Claims) *Identity {
	id := &Identity{Email: c.Email, Role: c.Role}
	id.UserID, _ = c.UserID()
	if c.IssuedAt != nil {
		id.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		id.ExpiresAt = c.ExpiresAt.Time
	}
	return id
}

// HasRole reports whether the identity holds one of roles. A nil identity
// holds none.
func (i *Identity) HasRole(roles ...model.Role) bool {
	if i == nil {
		return false
	}
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

// IsAdmin gates user, provider key and training content management.
func (i *Identity) IsAdmin() bool {
	return i.HasRole(model.RoleAdmin)
}

// CanWrite gates changes to compliance records.
func (i *Identity) CanWrite() bool {
	return i.HasRole(model.RoleAdmin, model.RoleComplianceOfficer)
}

func (i *Identity) String() string {
	if i == nil {
		return "anonymous"
	}
	return fmt.Sprintf("%s (user %d, %s)", i.Email, i.UserID, i.Role)
}

func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(*Identity)
	return id, ok && id != nil
}

func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}
