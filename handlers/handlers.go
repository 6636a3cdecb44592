package handlers

import (
	"errors"

	"jobify/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// respondError maps business-outcome errors onto 4xx responses and
// everything else onto a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrJobNotFound),
		errors.Is(err, services.ErrApplicationNotFound),
		errors.Is(err, services.ErrReferralNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, services.ErrTaskInactive),
		errors.Is(err, services.ErrUserSuspended),
		errors.Is(err, services.ErrAlreadyCompleted),
		errors.Is(err, services.ErrAlreadyCompletedToday),
		errors.Is(err, services.ErrDuplicateApplication),
		errors.Is(err, services.ErrAlreadyReferred),
		errors.Is(err, services.ErrSelfReferral):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Server error",
		"error":   err.Error(),
	})
}
