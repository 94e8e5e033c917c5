package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/config"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/database"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/logging"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/repository"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/routes"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/services"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/token"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	logging.Setup(cfg.AppEnv)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(database.DB); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		logging.NewStdoutHandler(cfg.AppEnv),
		pgLogHandler,
	)))

	// Log cleanup
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)

	// Tracking limiter storage: Redis when configured, process memory otherwise
	var limiterStorage fiber.Storage
	if cfg.RedisAddr != "" {
		rdb, err := database.OpenRedis(context.Background(), cfg.RedisAddr)
		if err != nil {
			slog.Error("redis unavailable", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		limiterStorage = middleware.NewRedisStorage(rdb, "cgs:limiter:")
		slog.Info("redis connected", "addr", cfg.RedisAddr)
	}

	// Stores and services
	reports := repository.NewGormReportStore(database.DB)
	admins := repository.NewGormAdminStore(database.DB)

	submissionService := services.NewSubmissionService(reports, token.NewGenerator())
	trackingService := services.NewTrackingService(reports)
	transitionService := services.NewTransitionService(reports)
	queryService := services.NewReportQueryService(reports)
	adminAuthService := services.NewAdminAuthService(admins, cfg)

	if cfg.AdminEmail != "" {
		if err := adminAuthService.SeedAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
			slog.Error("admin seed failed", "error", err)
			os.Exit(1)
		}
		slog.Info("admin account seeded")
	}

	// Handlers
	healthHandler := handlers.NewHealthHandler(database.Ping)
	reportHandler := handlers.NewReportHandler(submissionService, trackingService, queryService)
	adminHandler := handlers.NewAdminHandler(adminAuthService, transitionService, queryService)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(handlers.SentryOptions(cfg)); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${method} | ${route}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	// Routes
	routes.Setup(app, cfg, healthHandler, reportHandler, adminHandler, limiterStorage)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if limiterStorage != nil {
		if err := limiterStorage.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}
	if err := database.Close(); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}
