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

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/calendar"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/features"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/features/assistant"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/features/builder"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/features/discussions"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/features/messaging"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/features/puzzles"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/features/social"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/features/topics"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout, tint when LOG_FORMAT=text)
	console := logging.Setup(cfg.LogFormat)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.MigrateShared(); err != nil {
		slog.Error("shared migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(console, pgLogHandler)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// Redis is optional
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 15*time.Second)
	redisCache, err := cache.Connect(connectCtx, cfg.RedisURL)
	cancelConnect()
	if err != nil {
		slog.Warn("redis unavailable, continuing without cache", "error", err)
		redisCache = &cache.Cache{}
	}

	clock := calendar.New(cfg.Location())

	// Services
	authService := services.NewAuthService(database.DB, cfg)
	moderationService := services.NewModerationService(database.DB)
	userService := services.NewUserService(database.DB)
	topicService := topics.NewService(database.DB, redisCache, clock)

	feats := []features.Feature{
		topics.New(topicService),
		assistant.New(topicService, clock),
		discussions.New(topicService, moderationService),
		messaging.New(moderationService),
		social.New(moderationService),
		puzzles.New(redisCache, clock),
		builder.New(moderationService),
	}

	for _, f := range feats {
		if uf, ok := f.(features.UserDataFeature); ok {
			authService.OnDeleteAccount(uf)
		}
		if models := f.Models(); len(models) > 0 {
			if err := database.MigrateModels(models); err != nil {
				slog.Error("feature migration failed", "feature", f.ID(), "error", err)
				os.Exit(1)
			}
			slog.Info("feature migrated", "feature", f.ID(), "models", len(models))
		}
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler(redisCache)
	moderationHandler := handlers.NewModerationHandler(moderationService)
	userHandler := handlers.NewUserHandler(userService)
	configHandler := handlers.NewRemoteConfigHandler(database.DB)

	slog.Info("seeding remote config defaults")
	if err := configHandler.SeedDefaults(cfg); err != nil {
		slog.Error("failed to seed remote config", "error", err)
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, database.DB, authHandler, healthHandler, moderationHandler, userHandler, configHandler, feats)

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

	if err := redisCache.Close(); err != nil {
		slog.Error("redis close error", "error", err)
	}
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
