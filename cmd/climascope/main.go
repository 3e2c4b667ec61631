package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/climascope/climascope/internal/api/http"
	"github.com/climascope/climascope/internal/config"
	"github.com/climascope/climascope/internal/dataset"
	"github.com/climascope/climascope/internal/geo"
	"github.com/climascope/climascope/internal/scheduler"
	"github.com/climascope/climascope/internal/weather"
	"github.com/climascope/climascope/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// In-memory store for uploaded datasets with configured retention.
	store := dataset.NewMemoryStore(cfg.DatasetMaxCount, cfg.DatasetMaxAge)

	// Live-temperature fetcher with optional coordinate fallback.
	provider := providers.NewOpenWeather(httpClient)
	resolver := geo.NewResolver(cfg.GeocoderAPIKey)
	fetcher := weather.NewFetcher(provider, resolver)

	// Periodic eviction of expired datasets.
	sweeper := scheduler.New(store, cfg.SweepInterval)
	if err := sweeper.Start(); err != nil {
		log.Fatalf("failed to start sweeper: %v", err)
	}
	defer sweeper.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "climascope",
		DisableStartupMessage: true,
		ReadTimeout:           60 * time.Second,
		WriteTimeout:          60 * time.Second,
		BodyLimit:             32 * 1024 * 1024, // uploaded datasets stay in memory
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "climascope",
		})
	})

	// Dashboard and API routes.
	httpapi.RegisterRoutes(app, httpapi.Deps{
		Store:         store,
		Fetcher:       fetcher,
		DefaultAPIKey: cfg.OpenWeatherAPIKey,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
