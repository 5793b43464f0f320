package httpx

import (
	"net/http"

	"github.com/telecrm/telecrm/internal/crm/domain"
)

// RequireAuthenticated rejects anonymous callers with 401. Gates below this
// one can assume a real user id in the identity.
func RequireAuthenticated() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IdentityFromContext(r.Context()).Anonymous() {
				WriteError(w, http.StatusUnauthorized, "unauthenticated", "Sign in required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole fails closed with 403 when the caller's role ranks below min.
// Gates compose: a manager gate admits manager and admin identities only.
func RequireRole(min domain.Role) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := IdentityFromContext(r.Context())
			if !identity.Role.AtLeast(min) {
				WriteError(w, http.StatusForbidden, "forbidden", "Insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
