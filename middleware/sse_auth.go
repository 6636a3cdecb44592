package middleware

import (
	"log"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// SSEAuthMiddleware is the query-parameter variant of the auth stack for
// EventSource clients, which cannot set headers. It expects `user_id` and,
// when service auth is enabled, `token`.
//
// Usage:
//	app.Get("/points/stream", middleware.SSEAuthMiddleware(), pointsService.StreamUserPointsSSE)
func SSEAuthMiddleware() fiber.Handler {
	expectedToken := os.Getenv("JOBIFY_SERVICE_TOKEN")

	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Query("user_id"))
		if userID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Missing user_id in query",
			})
		}

		if expectedToken != "" {
			token := strings.TrimSpace(c.Query("token"))
			if token != expectedToken {
				log.Printf("[SSEAuth] ❌ Invalid token for stream request by %s", userID)
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Unauthorized",
				})
			}
		}

		c.Locals("user_id", userID)
		return c.Next()
	}
}
