package middleware

import (
	"net/http"

	"github.com/gorilla/csrf"
)

// CSRF returns form token protection keyed by authKey (32 bytes).
// With an empty key the middleware is a pass-through.
func CSRF(authKey []byte, secure bool, trustedOrigins []string) func(http.Handler) http.Handler {
	if len(authKey) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	protect := csrf.Protect(
		authKey,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.TrustedOrigins(trustedOrigins),
		csrf.FieldName("gorilla.csrf.Token"),
	)
	if secure {
		return protect
	}

	// Served over plain HTTP: skip the HTTPS-only referer check
	return func(next http.Handler) http.Handler {
		h := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}

// CSRFToken returns the token to embed in forms, or "" when protection is off
func CSRFToken(r *http.Request) string {
	return csrf.Token(r)
}
