package discussions

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/features/topics"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Feature struct {
	topics     *topics.Service
	moderation *services.ModerationService
}

func New(topicService *topics.Service, moderation *services.ModerationService) *Feature {
	return &Feature{topics: topicService, moderation: moderation}
}

func (f *Feature) ID() string { return "discussions" }

func (f *Feature) Models() []interface{} {
	return []interface{}{&Discussion{}, &Message{}}
}

func (f *Feature) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewDiscussionHandler(NewService(db, f.topics, f.moderation))

	router.Get("/discussions", handler.List)
	router.Get("/discussions/topic/:topicId", handler.ForTopic)
	router.Get("/discussions/:id/messages", handler.Messages)
	router.Post("/discussions/:id/messages",
		middleware.SlidingWindow(20, time.Minute, middleware.RateLimitKeyByUser),
		handler.Post,
	)
}

func (f *Feature) RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewDiscussionHandler(NewService(db, f.topics, f.moderation))
	router.Post("/discussions", handler.Create)
}
