package handlers

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"jobify/middleware"
	"jobify/models"
	"jobify/services"
	"jobify/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App, userService *services.UserService, pointsService *services.PointsService, badgeService *services.BadgeService) {
	// 🔓 Public — sign-in ingress and profile lookups
	app.Post("/users", func(c *fiber.Ctx) error {
		var req services.UpsertUserInput
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
		}
		if err := validate.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body", "error": err.Error()})
		}

		user, created, err := userService.UpsertByEmail(req)
		if err != nil {
			return respondError(c, err)
		}

		status := fiber.StatusOK
		if created {
			status = fiber.StatusCreated
		}
		return c.Status(status).JSON(user.Public())
	})

	// Lookup by the identity-provider id set at sign-in; falls back to the
	// internal id so profile pages can use either.
	app.Get("/users/:id", func(c *fiber.Ctx) error {
		id := c.Params("id")
		user, err := userService.GetByExternalID(id)
		if err == services.ErrUserNotFound {
			user, err = userService.GetByID(id)
		}
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(user.Public())
	})

	app.Get("/users/:id/points", func(c *fiber.Ctx) error {
		summary, err := pointsService.GetUserSummary(c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(summary)
	})

	app.Get("/users/:id/points/history", func(c *fiber.Ctx) error {
		page, _ := strconv.Atoi(c.Query("page", "1"))
		size, _ := strconv.Atoi(c.Query("size", "20"))
		history, err := pointsService.GetHistory(c.Params("id"), page, size)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(history)
	})

	app.Get("/users/:id/badges", func(c *fiber.Ctx) error {
		badges, err := badgeService.BadgesForUser(c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(badges)
	})

	// 🔐 Secured — require forwarded user context
	authed := middleware.UserContextMiddleware()
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	app.Put("/users/:id", authed, func(c *fiber.Ctx) error {
		var req services.UpdateProfileInput
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
		}
		user, err := userService.UpdateProfile(c.Params("id"), req)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(user.Public())
	})

	app.Post("/users/:id/resume", authed, func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("resume")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Missing resume file"})
		}
		if ext := strings.ToLower(filepath.Ext(fileHeader.Filename)); ext != ".pdf" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Resume must be a PDF"})
		}

		userID := c.Params("id")
		key := fmt.Sprintf("resumes/%s.pdf", userID)
		url, err := utils.StoreResume(fileHeader, key)
		if err != nil {
			return respondError(c, err)
		}

		user, err := userService.SetResumeURL(userID, url)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"resume_url": user.ResumeURL,
		})
	})

	// Admin directory and suspend flag
	app.Get("/users", authed, adminOnly, func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "50"))
		users, err := userService.Search(c.Query("q"), models.Role(c.Query("role")), limit)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(users)
	})

	app.Patch("/users/:id/status", authed, adminOnly, func(c *fiber.Ctx) error {
		var req struct {
			Status models.UserStatus `json:"status" validate:"required,oneof=active suspended"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
		}
		if err := validate.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid status", "error": err.Error()})
		}

		user, err := userService.SetStatus(c.Params("id"), req.Status)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(user.Public())
	})

	// Live points feed (EventSource clients authenticate via query)
	app.Get("/points/stream", middleware.SSEAuthMiddleware(), pointsService.StreamUserPointsSSE)
}
