package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/auth"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/identity"
)

// JWTAuthenticator is middleware that validates bearer session tokens
type JWTAuthenticator struct {
	Issuer *auth.Issuer
}

// NewJWTAuthenticator creates a new JWT authenticator middleware
func NewJWTAuthenticator(issuer *auth.Issuer) *JWTAuthenticator {
	return &JWTAuthenticator{Issuer: issuer}
}

// BearerToken extracts the token of an "Authorization: Bearer <token>" header.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Middleware returns an HTTP middleware that validates JWT tokens and
// stores the caller's identity in the request context.
func (j *JWTAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if len(authHeader) == 0 {
			unauthorized(w, "Authorization missing")
			return
		}

		tokenStr, ok := BearerToken(authHeader)
		if !ok {
			unauthorized(w, "Malformed authorization header")
			return
		}

		if j.Issuer == nil {
			unauthorized(w, "Invalid token")
			return
		}
		claims, err := j.Issuer.Verify(tokenStr)
		if err != nil {
			unauthorized(w, "Invalid token")
			return
		}

		id := identity.FromClaims(claims)
		id.RemoteIP = net.ParseIP(ClientIP(r))
		id.RequestID = GetRequestID(r.Context())

		next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), id)))
	})
}

// RequireAdmin rejects callers that are not administrators.
func RequireAdmin(next http.Handler) http.Handler {
	return requireRole(next, (*identity.Identity).IsAdmin)
}

// RequireWriter rejects read-only callers.
func RequireWriter(next http.Handler) http.Handler {
	return requireRole(next, (*identity.Identity).CanWrite)
}

func requireRole(next http.Handler, allowed func(*identity.Identity) bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			unauthorized(w, "Authorization missing")
			return
		}
		if !allowed(id) {
			writeError(w, http.StatusForbidden, "Forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="aiact"`)
	writeError(w, http.StatusUnauthorized, msg)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
