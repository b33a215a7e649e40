package topics

import (
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/config"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Feature serves the daily topic and its votes. The service is built up front
// because the assistant reads today's question from it.
type Feature struct {
	service *Service
}

func New(service *Service) *Feature {
	return &Feature{service: service}
}

func (f *Feature) ID() string { return "topics" }

func (f *Feature) Models() []interface{} {
	return []interface{}{&DailyQuestion{}, &Vote{}}
}

func (f *Feature) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewTopicHandler(f.service)

	router.Get("/topics/today", handler.Today)
	router.Get("/topics", handler.List)
	router.Post("/topics/:id/vote", handler.Vote)
}

func (f *Feature) RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewTopicHandler(f.service)
	router.Post("/topics", handler.Schedule)
}
