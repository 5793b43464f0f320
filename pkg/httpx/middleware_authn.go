package httpx

import (
	"context"
	"net/http"

	"github.com/telecrm/telecrm/pkg/sessionx"
	"github.com/telecrm/telecrm/pkg/slogx"
)

// IdentityResolver maps a verified session subject to a persisted identity.
// A false return means the subject has no matching user row.
type IdentityResolver func(ctx context.Context, openID string) (Identity, bool)

// CookieAuthMiddleware resolves the request identity from the named session
// cookie. It never rejects: a missing, invalid or unresolvable session simply
// attaches the anonymous identity and continues. Authorization gates further
// down the chain decide what anonymous callers may do.
func CookieAuthMiddleware(codec *sessionx.Codec, cookieName string, resolve IdentityResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			identity := AnonymousIdentity()
			if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
				if sess, err := codec.Verify(cookie.Value); err == nil {
					if resolved, ok := resolve(ctx, sess.OpenID); ok {
						identity = resolved
					} else {
						// Valid token but no matching user row. Treated as
						// signed out.
						slogx.FromContext(ctx).Warn("session subject has no user row",
							"open_id", sess.OpenID)
					}
				}
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, identity)))
		})
	}
}
