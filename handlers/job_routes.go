package handlers

import (
	"jobify/middleware"
	"jobify/models"
	"jobify/services"

	"github.com/gofiber/fiber/v2"
)

func SetupJobRoutes(app *fiber.App, jobService *services.JobService) {
	// 🔓 Public board
	app.Get("/jobs", func(c *fiber.Ctx) error {
		jobs, err := jobService.ListJobs(services.JobFilter{
			Query:    c.Query("q"),
			Type:     c.Query("type"),
			Location: c.Query("location"),
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(jobs)
	})

	app.Get("/jobs/:id", func(c *fiber.Ctx) error {
		job, err := jobService.GetJob(c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(job)
	})

	// Applying carries the acting user in the body, as in the original API.
	app.Post("/jobs/:id/apply", func(c *fiber.Ctx) error {
		var req struct {
			UserID string `json:"userId" validate:"required"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
		}
		if err := validate.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "userId is required"})
		}

		application, points, err := jobService.Apply(c.Params("id"), req.UserID)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"application":   application,
			"points_earned": points,
		})
	})

	// 🔐 Recruiter/admin surface
	authed := middleware.UserContextMiddleware()
	hiringOnly := middleware.RequireRole(models.RoleRecruiter, models.RoleAdmin)

	app.Post("/jobs", authed, hiringOnly, func(c *fiber.Ctx) error {
		var req services.CreateJobInput
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
		}
		if req.RecruiterID == "" {
			req.RecruiterID, _ = c.Locals("user_id").(string)
		}
		if err := validate.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid job posting", "error": err.Error()})
		}

		job, err := jobService.CreateJob(req)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(job)
	})

	app.Get("/jobs/:id/applications", authed, hiringOnly, func(c *fiber.Ctx) error {
		applications, err := jobService.ApplicationsForJob(c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(applications)
	})

	app.Patch("/applications/:id", authed, hiringOnly, func(c *fiber.Ctx) error {
		var req struct {
			Status models.ApplicationStatus `json:"status" validate:"required,oneof=pending reviewed accepted rejected"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
		}
		if err := validate.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid status", "error": err.Error()})
		}

		application, err := jobService.UpdateApplicationStatus(c.Params("id"), req.Status)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(application)
	})

	app.Delete("/jobs/:id", authed, hiringOnly, func(c *fiber.Ctx) error {
		job, err := jobService.GetJob(c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}

		actorID, _ := c.Locals("user_id").(string)
		role, _ := c.Locals("user_role").(models.Role)
		if role != models.RoleAdmin && job.RecruiterID != actorID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Only the posting recruiter or an admin can delete a job",
			})
		}

		if err := jobService.DeleteJob(job.ID); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
