package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/teleposta/ict-helpdesk/internal/domain"
)

// Require returns the handlers that admit callers whose role satisfies
// required. The principal is stored for PrincipalFromContext.
func (m *AuthMiddleware) Require(required domain.Role) []fiber.Handler {
	return []fiber.Handler{m.guard(required)}
}

func (m *AuthMiddleware) guard(required domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := m.Authorize(c.UserContext(), c.Get(fiber.HeaderAuthorization), required)
		if err != nil {
			return err
		}
		c.Locals(principalKey, principal)
		return c.Next()
	}
}
