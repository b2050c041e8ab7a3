package handlers

import (
	"errors"
	"os"
	"path/filepath"

	"country-gdp-service/backend/services"

	"github.com/gofiber/fiber/v2"
)

// GetStatus returns the record count and the last refresh time
// GET /countries/status
func (h *Handler) GetStatus(c *fiber.Ctx) error {
	status, err := h.Query.Status(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(status)
}

// GetSummaryImage streams the last rendered summary image
// GET /countries/image, GET /summary-image
func (h *Handler) GetSummaryImage(c *fiber.Ctx) error {
	path, err := filepath.Abs(h.SummaryImagePath)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &services.NotFoundError{Resource: "Summary image"}
		}
		return err
	}

	return c.SendFile(path)
}
