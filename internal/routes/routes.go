package routes

import (
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/features"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	moderationHandler *handlers.ModerationHandler,
	userHandler *handlers.UserHandler,
	configHandler *handlers.RemoteConfigHandler,
	feats []features.Feature,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(middleware.SlidingWindow(60, time.Minute, middleware.ByIP))

	api.Get("/health", healthHandler.Check)
	api.Get("/config", configHandler.GetConfig)
	api.Get("/users/username/:name", userHandler.UsernameAvailability)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(middleware.SlidingWindow(10, time.Minute, middleware.ByIP))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// JWT is applied per route so the public routes above stay open.
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)

	api.Post("/reports", middleware.JWTProtected(cfg), moderationHandler.CreateReport)
	api.Get("/blocks", middleware.JWTProtected(cfg), moderationHandler.ListBlocked)
	api.Post("/blocks", middleware.JWTProtected(cfg), moderationHandler.BlockUser)
	api.Delete("/blocks/:id", middleware.JWTProtected(cfg), moderationHandler.UnblockUser)

	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Get("/moderation/reports", moderationHandler.ListReports)
	admin.Put("/moderation/reports/:id", moderationHandler.ActionReport)
	admin.Put("/config/:key", configHandler.SetConfigKey)
	admin.Delete("/config/:key", configHandler.DeleteConfigKey)

	protected := api.Group("/p", middleware.JWTProtected(cfg))
	protected.Get("/users/me", userHandler.Me)
	protected.Get("/users/:id", userHandler.Get)

	for _, f := range feats {
		f.RegisterRoutes(protected, db, cfg)
		if af, ok := f.(features.AdminFeature); ok {
			af.RegisterAdminRoutes(admin, db, cfg)
		}
		if pf, ok := f.(features.PublicFeature); ok {
			pf.RegisterPublicRoutes(api, db, cfg)
		}
		slog.Debug("feature routes registered", "feature", f.ID())
	}
}
