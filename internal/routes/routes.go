package routes

import (
	"time"

	"github.com/hivesocial/moderation-backend/internal/config"
	"github.com/hivesocial/moderation-backend/internal/handlers"
	"github.com/hivesocial/moderation-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	moderationHandler *handlers.ModerationHandler,
	reportHandler *handlers.ReportHandler,
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

	// Public: the policy document and thresholds are auditable without auth.
	api.Get("/moderation/guidelines", moderationHandler.Guidelines)

	// Auth — public, with a stricter rate limit
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	// Moderation — the content-submission pipeline entry point
	api.Post("/moderation/scan", middleware.JWTProtected(cfg), moderationHandler.Scan)
	api.Get("/moderation/me", middleware.JWTProtected(cfg), moderationHandler.Me)

	// User reports
	api.Post("/reports", middleware.JWTProtected(cfg), reportHandler.CreateReport)

	// Admin moderation panel
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Get("/moderation/records", moderationHandler.ListRecords)
	admin.Get("/moderation/records/:id", moderationHandler.GetRecord)
	admin.Post("/moderation/sweep", moderationHandler.Sweep)
	admin.Get("/moderation/reports", reportHandler.ListReports)
	admin.Put("/moderation/reports/:id", reportHandler.ActionReport)
}
