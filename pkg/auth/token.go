package auth

import (
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
)

var (
	ErrMissingSecret = errors.New("jwt secret is required")
	ErrInvalidToken  = errors.New("invalid token")
)

// Claims are the session token claims. Subject holds the user id.
type Claims struct {
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
	jwt.RegisteredClaims
}

// UserID returns the numeric user id held in the subject claim.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: subject %q is not a user id", ErrInvalidToken, c.Subject)
	}
	return uint(id), nil
}

// Issuer issues and verifies HS256 session tokens. The token lifetime may
// be changed while tokens are being issued.
type Issuer struct {
	Secret []byte

	ttl atomic.Int64
	// now is replaced in tests
	now func() time.Time
}

func NewIssuer(secret []byte, ttl time.Duration) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}
	i := &Issuer{Secret: secret, now: time.Now}
	i.SetTTL(ttl)
	return i, nil
}

// TTL is the lifetime of newly issued tokens.
func (i *Issuer) TTL() time.Duration {
	return time.Duration(i.ttl.Load())
}

// SetTTL applies to tokens issued from now on.
func (i *Issuer) SetTTL(ttl time.Duration) {
	i.ttl.Store(int64(ttl))
}

func (i *Issuer) clock() time.Time {
	if i.now == nil {
		return time.Now()
	}
	return i.now()
}

// Issue returns a signed token for user and its expiry.
func (i *Issuer) Issue(user *model.User) (string, time.Time, error) {
	now := i.clock()
	exp := now.Add(i.TTL())
	claims := Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify parses tokenStr and checks its signature and expiry. Only HS256
// is accepted.
func (i *Issuer) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return i.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.clock),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil {
		return nil, err
	}
	return claims, nil
}
