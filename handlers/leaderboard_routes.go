package handlers

import (
	"jobify/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLeaderboardRoutes(app *fiber.App, leaderboardService *services.LeaderboardService) {
	app.Get("/leaderboard", func(c *fiber.Ctx) error {
		metric := c.Query("metric", services.MetricPoints)
		if metric != services.MetricPoints && metric != services.MetricReferrals {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "metric must be 'points' or 'referrals'",
			})
		}

		entries, err := leaderboardService.Rank(metric, services.LeaderboardFilter{
			Query:   c.Query("q"),
			College: c.Query("college"),
			Skill:   c.Query("skill"),
		})
		if err != nil {
			return respondError(c, err)
		}

		return c.JSON(fiber.Map{
			"metric":  metric,
			"entries": entries,
		})
	})
}
