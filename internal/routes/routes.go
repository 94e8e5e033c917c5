package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/config"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/dto"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	healthHandler *handlers.HealthHandler,
	reportHandler *handlers.ReportHandler,
	adminHandler *handlers.AdminHandler,
	limiterStorage fiber.Storage,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Public dashboard
	api.Get("/stats", reportHandler.Stats)
	api.Get("/reports/latest", reportHandler.Latest)

	// Anonymous submission and tracking
	api.Post("/reports", reportHandler.Submit)
	track := middleware.TrackLimiter(cfg.TrackRateLimit, limiterStorage)
	api.Get("/reports/track", track, reportHandler.Track)
	api.Get("/reports/track/:token", track, reportHandler.Track)

	// Admin login: 10 req/min per IP (stricter)
	api.Post("/admin/login", limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return "login:" + c.IP() },
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Error: true, Message: "Too many login attempts, try again later",
			})
		},
	}), adminHandler.Login)

	// Admin panel (JWT or static admin token)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(cfg))
	admin.Get("/reports", adminHandler.ListReports)
	admin.Get("/reports/:token", adminHandler.GetReport)
	admin.Put("/reports/:token/status", adminHandler.UpdateStatus)
}
