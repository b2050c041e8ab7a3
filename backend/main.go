package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"country-gdp-service/backend/config"
	"country-gdp-service/backend/handlers"
	"country-gdp-service/backend/repository"
	"country-gdp-service/backend/services"
	"country-gdp-service/backend/system"

	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

func main() {
	// 0. Configuration (fatal if incomplete)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("CRITICAL: %v", err)
	}

	if err := system.InitLogger(cfg.LogDir); err != nil {
		log.Printf("Warning: Could not initialize file logger: %v", err)
	}
	defer system.Close()

	system.Info("Country GDP service starting...")

	// 1. Record store
	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		system.Error("Failed to open database: %v", err)
		log.Fatalf("CRITICAL: Database setup failed. Application cannot start: %v", err)
	}
	system.Info("Database ready: %s", cfg.DBPath)

	// 2. Services
	repo := repository.NewGormCountryRepository(db)
	fetcher := services.NewRemoteFetcher(cfg.CountriesAPI, cfg.ExchangeAPI, cfg.RequestTimeout())

	renderer, err := services.NewPNGRenderer(cfg.SummaryImagePath)
	if err != nil {
		log.Fatalf("CRITICAL: Summary renderer setup failed: %v", err)
	}

	refreshService := services.NewRefreshService(fetcher, repo, renderer)

	webhookService := services.NewWebhookService()
	if cfg.DiscordWebhookURL != "" {
		webhookService.SetWebhookURL(cfg.DiscordWebhookURL)
		refreshService.SetNotifier(webhookService)
		system.Info("Discord webhook configured")
	}

	queryService := services.NewQueryService(repo)

	var healthMonitor *services.SourceHealthMonitor
	if cfg.HealthCheckInterval > 0 {
		healthMonitor = services.NewSourceHealthMonitor(cfg.CountriesAPI, cfg.ExchangeAPI, cfg.RequestTimeout(), cfg.HealthCheckInterval)
		healthMonitor.SetAlerter(webhookService)
		healthMonitor.Start()
	}

	var scheduler *services.RefreshScheduler
	if cfg.RefreshSchedule != "" {
		scheduler = services.NewRefreshScheduler(refreshService)
		if err := scheduler.Start(cfg.RefreshSchedule); err != nil {
			log.Fatalf("CRITICAL: %v", err)
		}
	}

	// 3. HTTP
	h := handlers.NewHandler(refreshService, queryService, cfg.SummaryImagePath)
	if healthMonitor != nil {
		h.Health = healthMonitor
	}

	app := handlers.NewApp()
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${ip} | ${locals:requestid} | ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
		Output:     os.Stdout,
	}))
	app.Use(cors.New())

	handlers.SetupRoutes(app, h)

	// Graceful Shutdown Handling
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		system.Info("Gracefully shutting down...")

		if scheduler != nil {
			scheduler.Stop()
		}
		if healthMonitor != nil {
			healthMonitor.Stop()
		}
		_ = app.Shutdown()
	}()

	system.Info("Server listening on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
