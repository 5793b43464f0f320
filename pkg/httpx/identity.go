package httpx

import (
	"context"

	"github.com/telecrm/telecrm/internal/crm/domain"
)

// Identity is the resolved caller of a request, built once by the
// authentication middleware and passed by value through the context. An
// anonymous request carries the zero UserID and the viewer role.
type Identity struct {
	UserID int64       `json:"id"`
	OpenID string      `json:"openId,omitempty"`
	Name   string      `json:"name,omitempty"`
	Role   domain.Role `json:"role"`
}

// Anonymous reports whether the identity belongs to no signed-in user.
func (id Identity) Anonymous() bool { return id.UserID == 0 }

// AnonymousIdentity is the identity attached when no valid session exists.
func AnonymousIdentity() Identity {
	return Identity{Role: domain.RoleViewer}
}

type identityKey struct{}

// WithIdentity attaches the identity to the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the request identity, or the anonymous identity
// when the authentication middleware has not run.
func IdentityFromContext(ctx context.Context) Identity {
	if id, ok := ctx.Value(identityKey{}).(Identity); ok {
		return id
	}
	return AnonymousIdentity()
}
