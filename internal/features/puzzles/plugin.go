package puzzles

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/calendar"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/config"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Feature struct {
	cache *cache.Cache
	clock *calendar.Clock
}

func New(c *cache.Cache, clock *calendar.Clock) *Feature {
	return &Feature{cache: c, clock: clock}
}

func (f *Feature) ID() string { return "puzzles" }

// Games live in the shared models package; the server migrates them with the core tables.
func (f *Feature) Models() []interface{} {
	return nil
}

func (f *Feature) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewGameHandler(NewService(db, f.cache, f.clock))

	if err := SeedCatalog(db); err != nil {
		slog.Error("failed to seed puzzle catalog", "error", err)
	}

	// Static segments are registered before /games/:id so they are not captured as ids.
	router.Get("/games", handler.List)
	router.Get("/games/next", handler.Next)
	router.Get("/games/leaderboard/:type", handler.Leaderboard)
	router.Get("/games/:id", handler.Get)
	router.Post("/games/:id/check", handler.Check)
	router.Post("/games/:id/result", handler.Result)
}
