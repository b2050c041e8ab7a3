package handlers

import (
	"errors"
	"net/http"

	"country-gdp-service/backend/services"
	"country-gdp-service/backend/system"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler turns any handler error into a {error, details} JSON body
func ErrorHandler(c *fiber.Ctx, err error) error {
	var (
		validation  *services.ValidationError
		notFound    *services.NotFoundError
		unavailable *services.SourceUnavailableError
		fiberErr    *fiber.Error
	)

	switch {
	case errors.As(err, &validation):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": validation.Details,
		})
	case errors.As(err, &notFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{
			"error":   notFound.Error(),
			"details": fiber.Map{},
		})
	case errors.As(err, &unavailable):
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
			"error":   "External data source unavailable",
			"details": unavailable.Error(),
		})
	case errors.As(err, &fiberErr):
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"error":   fiberErr.Message,
			"details": fiber.Map{},
		})
	}

	system.Error("%s %s failed: %v", c.Method(), c.Path(), err)
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
		"error":   "Internal server error",
		"details": fiber.Map{},
	})
}
