package builder

import (
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Feature struct {
	moderation *services.ModerationService
}

func New(moderation *services.ModerationService) *Feature {
	return &Feature{moderation: moderation}
}

func (f *Feature) ID() string { return "builder" }

// Custom games are rows in the shared games table.
func (f *Feature) Models() []interface{} {
	return nil
}

func (f *Feature) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewBuilderHandler(NewService(db, f.moderation))

	router.Post("/builder/validate", handler.Validate)
	router.Get("/builder/games", handler.Mine)
	router.Post("/builder/games", handler.Create)
	router.Get("/builder/games/:id", handler.Get)
	router.Put("/builder/games/:id/active", handler.SetActive)
}
