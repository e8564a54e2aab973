package middleware

import (
	"log/slog"
	"net/http"

	"github.com/maulanaar/labtrack/internal"
)

// RequireAuth redirects anonymous requests to the login page.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !internal.IsLoggedIn(r.Context()) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireCapability stops a request before the handler runs unless the
// current role grants the capability. A failed check never reaches a
// mutating handler.
func RequireCapability(capability internal.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := internal.IdentityFromContext(r.Context())
			if !ok {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			if !identity.HasCapability(capability) {
				slog.Warn("access denied: insufficient capability",
					"user_id", identity.UserID,
					"role", identity.Role.String(),
					"required_capability", capability,
					"path", r.URL.Path)
				http.Redirect(w, r, "/access-denied", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
