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

	httpapi "github.com/azmataliakbar/weather-app/internal/api/http"
	"github.com/azmataliakbar/weather-app/internal/config"
	"github.com/azmataliakbar/weather-app/internal/scheduler"
	"github.com/azmataliakbar/weather-app/internal/search"
	"github.com/azmataliakbar/weather-app/internal/session"
	"github.com/azmataliakbar/weather-app/internal/telemetry"
	"github.com/azmataliakbar/weather-app/internal/weather/providers"
)

func main() {
	// Load configuration (.env + environment).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	shutdownTracing, err := telemetry.Setup("weather-app", cfg.ZipkinEndpoint)
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	gateway, err := providers.NewOpenWeatherGateway(providers.HTTPClientConfig{
		Client:  httpClient,
		Breaker: providers.DefaultBreakerConfig(),
	}, cfg.OpenWeatherBaseURL, cfg.OpenWeatherAPIKey)
	if err != nil {
		log.Fatalf("failed to create weather gateway: %v", err)
	}

	// One search controller per browser session.
	sessions := session.NewRegistry(func() *search.Controller {
		return search.New(gateway,
			search.WithEmptyInputPolicy(cfg.EmptyInputPolicy),
			search.WithForecastSteps(cfg.ForecastSteps),
		)
	}, cfg.SessionMaxIdle)
	defer sessions.CloseAll()

	sched := scheduler.New(cfg.SessionSweepInterval, sessions)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-app",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"service":  "weather-app",
			"sessions": sessions.Len(),
		})
	})

	httpapi.RegisterRoutes(app, sessions)

	go func() {
		log.Printf("INFO: listening on %s", cfg.Addr())
		if err := app.Listen(cfg.Addr()); err != nil {
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
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Printf("error flushing traces: %v", err)
	}
}
