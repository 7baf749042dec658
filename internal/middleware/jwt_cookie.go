package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/ride-admin/internal/cache"
	"github.com/example/ride-admin/internal/utils"
)

// CookieName is where the signed JWT lives on the client.
const CookieName = "ra_token"

func JWTFromCookie(secret string, denylist *cache.Denylist) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := c.Cookies(CookieName)
		if tokenStr == "" {
			return fiber.ErrUnauthorized
		}

		token, claims, err := utils.ParseJWT(secret, tokenStr)
		if err != nil || !token.Valid {
			return fiber.ErrUnauthorized
		}

		if denylist.IsRevoked(c.Context(), claims.ID) {
			return fiber.ErrUnauthorized
		}

		c.Locals("user", token)
		return c.Next()
	}
}
