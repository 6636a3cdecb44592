package handlers

import (
	"jobify/services"

	"github.com/gofiber/fiber/v2"
)

func SetupReferralRoutes(app *fiber.App, referralService *services.ReferralService) {
	// Issue (or return) the caller's shareable code.
	app.Post("/referrals", func(c *fiber.Ctx) error {
		var req struct {
			UserID string `json:"userId" validate:"required"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
		}
		if err := validate.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "userId is required"})
		}

		referral, err := referralService.EnsureCode(req.UserID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(referral)
	})

	app.Get("/referrals/:userId", func(c *fiber.Ctx) error {
		referral, err := referralService.GetByUser(c.Params("userId"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(referral)
	})

	// Redeem during signup; credits the code's owner.
	app.Post("/referrals/redeem", func(c *fiber.Ctx) error {
		var req struct {
			Code   string `json:"code" validate:"required"`
			UserID string `json:"userId" validate:"required"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
		}
		if err := validate.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "code and userId are required"})
		}

		referral, points, err := referralService.Redeem(req.Code, req.UserID)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"referral":      referral,
			"points_earned": points,
		})
	})
}
