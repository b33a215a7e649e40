package middleware

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/identity"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimitKeyByUser keys the limiter per authenticated user, falling back to the client IP.
func RateLimitKeyByUser(c *fiber.Ctx) string {
	if id, err := identity.GetUserID(c); err == nil {
		return "user:" + id.String()
	}
	return c.IP()
}

// SlidingWindow builds a sliding-window limiter of max requests per window.
func SlidingWindow(max int, window time.Duration, key func(*fiber.Ctx) string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        window,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      key,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": true, "message": "Too many requests, slow down",
			})
		},
	})
}

// ByIP is the default limiter key.
func ByIP(c *fiber.Ctx) string {
	return c.IP()
}
