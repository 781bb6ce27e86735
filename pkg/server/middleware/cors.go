package middleware

import (
	"net/http"
	"strings"
)

// DefaultCORSAllowedMethods is the default set of methods allowed for CORS.
var DefaultCORSAllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}

// DefaultCORSAllowedHeaders is the default set of request headers allowed for CORS.
var DefaultCORSAllowedHeaders = []string{"Accept", "Authorization", "Content-Type", RequestIDHeader}

// CORS sets CORS response headers for origins accepted by allowed and
// answers OPTIONS preflights. allowed is consulted per request so origin
// changes from a config reload apply immediately. A nil allowed disables
// the middleware.
func CORS(allowed func(origin string) bool) func(http.Handler) http.Handler {
	if allowed == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && allowed(origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", strings.Join(DefaultCORSAllowedMethods, ", "))
				w.Header().Set("Access-Control-Allow-Headers", strings.Join(DefaultCORSAllowedHeaders, ", "))
				w.Header().Set("Access-Control-Expose-Headers", RequestIDHeader)
				w.Header().Set("Access-Control-Max-Age", "86400")
				w.Header().Add("Vary", "Origin")
			}
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
