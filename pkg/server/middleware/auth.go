// Package middleware contains the HTTP middleware guarding the API.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"path"
	"strings"

	"github.com/uemf/forms-api/pkg/auth"
	"github.com/uemf/forms-api/pkg/requester"
)

type contextKey string

// requesterKey carries the authenticated requester through the request
// context.
const requesterKey contextKey = "requester"

// defaultWhitelist lists the shell-style path patterns that skip
// authentication.
var defaultWhitelist = []string{
	"/",
	"/register",
	"/docs",
	"/docs/*",
}

// TokenAuthenticator is middleware that validates bearer tokens against
// the auth service. Whitelisted paths and CORS preflights pass through.
type TokenAuthenticator struct {
	auth      *auth.Service
	whitelist []string
}

// NewTokenAuthenticator creates the middleware. Extra whitelist patterns
// are added to the defaults.
func NewTokenAuthenticator(authService *auth.Service, extra ...string) *TokenAuthenticator {
	return &TokenAuthenticator{
		auth:      authService,
		whitelist: append(append([]string{}, defaultWhitelist...), extra...),
	}
}

// Whitelisted reports whether the path matches a whitelist pattern.
func (t *TokenAuthenticator) Whitelisted(p string) bool {
	for _, pattern := range t.whitelist {
		if ok, err := path.Match(pattern, p); err == nil && ok {
			return true
		}
	}
	return false
}

// Middleware returns an HTTP middleware that validates bearer tokens.
// All failures answer 400 rather than 401: the proxy in front of this
// service rewrites 401 bodies, so the API has always used 400 here.
func (t *TokenAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || t.Whitelisted(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		if header == "" {
			deny(w, "Authorization header missing")
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			deny(w, "Malformed authorization header")
			return
		}

		rec, err := t.auth.Authenticate(tokenString)
		if err != nil {
			deny(w, "Authentication failed")
			return
		}

		ctx := context.WithValue(r.Context(), requesterKey, rec)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext returns the authenticated requester stored by the
// middleware.
func FromContext(ctx context.Context) (*requester.Record, bool) {
	rec, ok := ctx.Value(requesterKey).(*requester.Record)
	return rec, ok
}

func deny(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}
