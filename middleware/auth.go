package middleware

import (
	"jobify/models"

	"github.com/gofiber/fiber/v2"
)

// UserContextMiddleware extracts the identity the gateway forwards after
// authenticating the caller. Real identity federation lives upstream; this
// service only trusts the headers.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get("X-User-ID")
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID — request must carry gateway auth context",
			})
		}

		role := models.Role(c.Get("X-User-Role"))
		if !role.Valid() {
			role = models.RoleStudent
		}

		c.Locals("user_id", userID)
		c.Locals("user_role", role)

		return c.Next()
	}
}

// RequireRole gates a route on the closed role set. Apply after
// UserContextMiddleware.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		current, _ := c.Locals("user_role").(models.Role)
		for _, role := range roles {
			if current == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "insufficient role for this operation",
		})
	}
}
