package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/example/ride-admin/internal/models"
	"github.com/example/ride-admin/internal/utils"
)

// RequireAdmin fails closed: no principal, no role claim, or any role
// other than exactly "admin" gets a 403. The comparison is
// case-sensitive on purpose.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Locals("user")
		if raw == nil {
			return fiber.ErrUnauthorized
		}

		token, ok := raw.(*jwt.Token)
		if !ok || token == nil {
			return fiber.ErrUnauthorized
		}

		claims, ok := token.Claims.(*utils.Claims)
		if !ok {
			return fiber.ErrUnauthorized
		}

		if models.Role(claims.Role) != models.RoleAdmin {
			return fiber.NewError(fiber.StatusForbidden, "forbidden: admin role required")
		}

		return c.Next()
	}
}
