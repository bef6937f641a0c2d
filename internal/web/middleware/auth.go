package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/mcoot/ofelia/internal/model"
	"github.com/mcoot/ofelia/internal/services/auth"
)

type contextKey string

const (
	ownerContextKey contextKey = "owner"

	// SessionCookieName is the cookie holding the session token
	SessionCookieName = "session"
)

// GetOwner returns the bracelet the request is logged in as, or ""
func GetOwner(ctx context.Context) model.BraceletID {
	owner, _ := ctx.Value(ownerContextKey).(model.BraceletID)
	return owner
}

// SessionToken returns the session cookie value, or ""
func SessionToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SetSessionCookie stores the session token for the browser session.
// No MaxAge is set so the cookie ends with the browsing session.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie removes the session cookie
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// OptionalAuth returns middleware that resolves the session owner if there is one.
// Pages never require a login; ownership only unlocks editing.
func OptionalAuth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			owner := authService.Owner(SessionToken(r))
			ctx := context.WithValue(r.Context(), ownerContextKey, owner)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
