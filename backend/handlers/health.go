package handlers

import (
	"net/http"

	"country-gdp-service/backend/system"

	"github.com/gofiber/fiber/v2"
)

// HealthReporter exposes the last known upstream state
type HealthReporter interface {
	Snapshot() map[string]bool
}

// GetHealth reports store reachability and the last upstream probe results
// GET /health
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	code := http.StatusOK
	status := "ok"
	database := "ok"

	if _, err := h.Query.Status(c.UserContext()); err != nil {
		system.Error("Health check: database unreachable: %v", err)
		code = http.StatusServiceUnavailable
		status = "down"
		database = "error"
	}

	sources := map[string]bool{}
	if h.Health != nil {
		sources = h.Health.Snapshot()
	}
	for _, up := range sources {
		if !up && status == "ok" {
			status = "degraded"
		}
	}

	return c.Status(code).JSON(fiber.Map{
		"status":   status,
		"database": database,
		"sources":  sources,
	})
}
