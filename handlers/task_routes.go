package handlers

import (
	"errors"

	"jobify/middleware"
	"jobify/models"
	"jobify/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func SetupTaskRoutes(app *fiber.App, pointsService *services.PointsService) {
	db := pointsService.DB

	authed := middleware.UserContextMiddleware()
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	// Active catalog; admins can ask for the full table with ?all=1.
	// The first handler serves the public view and only falls through to
	// the guarded one when the full table was requested.
	app.Get("/tasks", func(c *fiber.Ctx) error {
		if c.Query("all") != "" {
			return c.Next()
		}
		var tasks []models.Task
		if err := db.Model(&models.Task{}).
			Where("active = ?", true).
			Order("created_at ASC").
			Find(&tasks).Error; err != nil {
			return respondError(c, err)
		}
		return c.JSON(tasks)
	}, authed, adminOnly, func(c *fiber.Ctx) error {
		var tasks []models.Task
		if err := db.Model(&models.Task{}).
			Order("created_at ASC").
			Find(&tasks).Error; err != nil {
			return respondError(c, err)
		}
		return c.JSON(tasks)
	})

	// Completion attempts come from the client with the acting user in the
	// body, as in the original API.
	app.Post("/tasks/:id/complete", func(c *fiber.Ctx) error {
		var req struct {
			UserID string `json:"userId" validate:"required"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
		}
		if err := validate.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "userId is required"})
		}

		completion, err := pointsService.CompleteTask(req.UserID, c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":      "Task completed successfully",
			"pointsEarned": completion.PointsEarned,
		})
	})

	// Admin catalog management
	app.Post("/tasks", authed, adminOnly, func(c *fiber.Ctx) error {
		var req struct {
			Name        string            `json:"name" validate:"required"`
			Description string            `json:"description"`
			Points      int64             `json:"points" validate:"required,min=1"`
			Policy      models.TaskPolicy `json:"type" validate:"required,oneof=daily once repeatable"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
		}
		if err := validate.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid task", "error": err.Error()})
		}

		task := models.Task{
			ID:          uuid.NewString(),
			Name:        req.Name,
			Description: req.Description,
			Points:      req.Points,
			Policy:      req.Policy,
			Active:      true,
		}
		if err := db.Create(&task).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "A task with this name already exists"})
			}
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(task)
	})

	app.Put("/tasks/:id", authed, adminOnly, func(c *fiber.Ctx) error {
		var task models.Task
		if err := db.First(&task, "id = ?", c.Params("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return respondError(c, services.ErrTaskNotFound)
			}
			return respondError(c, err)
		}

		var req struct {
			Name        *string            `json:"name"`
			Description *string            `json:"description"`
			Points      *int64             `json:"points" validate:"omitempty,min=1"`
			Policy      *models.TaskPolicy `json:"type" validate:"omitempty,oneof=daily once repeatable"`
			Active      *bool              `json:"is_active"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
		}
		if err := validate.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid task", "error": err.Error()})
		}

		if req.Name != nil {
			task.Name = *req.Name
		}
		if req.Description != nil {
			task.Description = *req.Description
		}
		if req.Points != nil {
			task.Points = *req.Points
		}
		if req.Policy != nil {
			task.Policy = *req.Policy
		}
		if req.Active != nil {
			task.Active = *req.Active
		}

		if err := db.Save(&task).Error; err != nil {
			return respondError(c, err)
		}
		return c.JSON(task)
	})
}
