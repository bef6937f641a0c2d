package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/ofelia/internal/api/apierr"
	"github.com/mcoot/ofelia/internal/model"
	"github.com/mcoot/ofelia/internal/services/auth"
)

type ownerKey struct{}

// Auth rejects requests without a live session and records the owner otherwise
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}
			session, err := authService.ValidateSession(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, withOwner(r, session.BraceletID))
		})
	}
}

// OptionalAuth records the owner when a valid token is sent; anonymous and
// stale tokens pass through unchanged
func OptionalAuth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if owner := authService.Owner(ExtractToken(r)); owner != "" {
				r = withOwner(r, owner)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ExtractToken reads a bearer token, falling back to the browser's session cookie
func ExtractToken(r *http.Request) string {
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	if cookie, err := r.Cookie("session"); err == nil {
		return cookie.Value
	}
	return ""
}

// GetOwner returns the authenticated bracelet, or "" without a session
func GetOwner(ctx context.Context) model.BraceletID {
	owner, _ := ctx.Value(ownerKey{}).(model.BraceletID)
	return owner
}

func withOwner(r *http.Request, owner model.BraceletID) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ownerKey{}, owner))
}
