package handlers

import (
	"context"

	"country-gdp-service/backend/models"
	"country-gdp-service/backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Refresher runs the refresh pipeline
type Refresher interface {
	Refresh(ctx context.Context) (*models.RefreshResult, error)
}

type Handler struct {
	Refresher        Refresher
	Query            *services.QueryService
	Health           HealthReporter
	SummaryImagePath string
}

func NewHandler(refresher Refresher, query *services.QueryService, summaryImagePath string) *Handler {
	return &Handler{Refresher: refresher, Query: query, SummaryImagePath: summaryImagePath}
}

// NewApp builds the fiber app with the shared error handler
func NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          ErrorHandler,
		UnescapePath:          true,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	return app
}

// SetupRoutes mounts the country API, the summary image, health and metrics
func SetupRoutes(app *fiber.App, h *Handler) {
	countries := app.Group("/countries")

	countries.Post("/refresh", h.RefreshCountries)
	countries.Get("/status", h.GetStatus)
	countries.Get("/image", h.GetSummaryImage)
	countries.Get("/", h.GetCountries)
	countries.Get("/:name", h.GetCountry)
	countries.Delete("/:name", h.DeleteCountry)

	app.Get("/summary-image", h.GetSummaryImage)
	app.Get("/health", h.GetHealth)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
