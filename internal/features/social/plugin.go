package social

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

func (f *Feature) ID() string { return "social" }

func (f *Feature) Models() []interface{} {
	return []interface{}{&GameLike{}, &GameComment{}}
}

func (f *Feature) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewSocialHandler(NewService(db, f.moderation))

	router.Post("/users/:id/follow", handler.Follow)
	router.Delete("/users/:id/follow", handler.Unfollow)
	router.Get("/users/:id/followers", handler.Followers)
	router.Get("/users/:id/following", handler.Following)

	router.Post("/games/:id/like", handler.Like)
	router.Get("/games/:id/comments", handler.Comments)
	router.Post("/games/:id/comments",
		middleware.SlidingWindow(20, time.Minute, middleware.RateLimitKeyByUser),
		handler.AddComment,
	)
}
