package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/school-auth/internal/domain"
)

// RequireRoles authorizes a request only when the authenticated identity's
// role is in the allowed set. Runs after AuthMiddleware.Handle; a missing
// identity means authentication never happened on this route, which is
// treated as unauthenticated rather than forbidden.
func RequireRoles(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		if domain.ValidRole(role) {
			allowedSet[role] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromCtx(c)
		if !ok {
			return unauthenticated(c, "Authorization header missing")
		}
		if _, exists := allowedSet[identity.Role]; !exists {
			return forbidden(c)
		}
		return c.Next()
	}
}

// RequireGroup authorizes against a named role group from the static
// configuration.
func RequireGroup(group domain.RoleGroup) fiber.Handler {
	return RequireRoles(domain.GroupRoles(group)...)
}

// RequireAuthenticated only checks that an identity is present, any role.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := IdentityFromCtx(c); !ok {
			return unauthenticated(c, "Authorization header missing")
		}
		return c.Next()
	}
}
