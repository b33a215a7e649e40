package messaging

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/middleware"
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

func (f *Feature) ID() string { return "messaging" }

func (f *Feature) Models() []interface{} {
	return []interface{}{&Conversation{}, &DirectMessage{}}
}

func (f *Feature) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewMessagingHandler(NewService(db, f.moderation))

	router.Get("/conversations", handler.List)
	router.Post("/conversations", handler.Open)
	router.Get("/conversations/:id/messages", handler.Messages)
	router.Post("/conversations/:id/messages",
		middleware.SlidingWindow(30, time.Minute, middleware.RateLimitKeyByUser),
		handler.Send,
	)
	router.Post("/conversations/:id/read", handler.MarkRead)
}
