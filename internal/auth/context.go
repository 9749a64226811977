package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/school-auth/internal/domain"
)

const identityKey = "auth_identity"

type contextKey int

const identityContextKey contextKey = iota

// SetIdentity publishes the identity into the request's fiber locals and
// user context. The identity is request-scoped only; concurrent requests
// never observe each other's identity.
func SetIdentity(c *fiber.Ctx, identity *domain.Identity) {
	c.Locals(identityKey, identity)
	c.SetUserContext(WithIdentity(c.UserContext(), identity))
}

// IdentityFromCtx retrieves the authenticated identity for this request.
func IdentityFromCtx(c *fiber.Ctx) (*domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*domain.Identity)
	return identity, ok
}

// WithIdentity returns a new context with the identity attached, for code
// below the HTTP layer that only sees a context.Context.
func WithIdentity(ctx context.Context, identity *domain.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext retrieves the identity from a plain context.
// Returns nil if no identity is present.
func IdentityFromContext(ctx context.Context) *domain.Identity {
	identity, _ := ctx.Value(identityContextKey).(*domain.Identity)
	return identity
}
