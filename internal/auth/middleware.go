package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Alternate header carrier checked after the canonical Authorization map.
// Some proxy configurations strip Authorization and re-attach the credential
// under this name.
const altAuthHeader = "X-Authorization"

// AuthMiddleware validates bearer tokens and publishes the decoded identity
// into the request scope. On failure it writes the 401 response itself and
// halts the pipeline.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	header, ok := authorizationHeader(c)
	if !ok {
		return unauthenticated(c, "Authorization header missing")
	}

	token, ok := bearerToken(header)
	if !ok {
		return unauthenticated(c, "Token missing")
	}

	identity, err := m.tokens.Validate(token)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return unauthenticated(c, "Token expired")
		}
		return unauthenticated(c, "Invalid token")
	}

	SetIdentity(c, identity)
	return c.Next()
}

// authorizationHeader resolves the credential carrier. The canonical header
// map is tried first, then a case-insensitive scan of the raw headers, then
// the alternate carrier. First match wins.
func authorizationHeader(c *fiber.Ctx) (string, bool) {
	if v := c.Get(fiber.HeaderAuthorization); v != "" {
		return v, true
	}

	var fallback string
	c.Request().Header.VisitAll(func(key, value []byte) {
		if fallback == "" && strings.EqualFold(string(key), fiber.HeaderAuthorization) {
			fallback = string(value)
		}
	})
	if fallback != "" {
		return fallback, true
	}

	if v := c.Get(altAuthHeader); v != "" {
		return v, true
	}
	return "", false
}

// bearerToken strips the Bearer prefix. Absent, empty, or non-Bearer
// credentials are rejected before any decoding happens.
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

func unauthenticated(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(http.StatusForbidden).JSON(fiber.Map{
		"success": false,
		"message": "Insufficient permissions",
	})
}
