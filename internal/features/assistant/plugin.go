package assistant

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/calendar"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Feature wires the AI assistant into the server.
type Feature struct {
	topics TopicSource
	clock  *calendar.Clock
}

func New(topics TopicSource, clock *calendar.Clock) *Feature {
	return &Feature{topics: topics, clock: clock}
}

func (f *Feature) ID() string { return "assistant" }

func (f *Feature) Models() []interface{} {
	return []interface{}{&Record{}}
}

// completers builds the provider chain: the remote function first, then the
// OpenAI-compatible fallback when a key is configured.
func completers(cfg *config.Config) *ChainCompleter {
	chain := NewChainCompleter()
	if cfg.AssistantFunctionURL != "" {
		chain.Add("function", NewFunctionCompleter(cfg.AssistantFunctionURL, cfg.AssistantFunctionToken, cfg.AITimeout))
	}
	if c := NewOpenAICompleter(cfg.OpenAIAPIURL, cfg.OpenAIAPIKey, cfg.OpenAIModel); c != nil {
		chain.Add("openai", c)
	}
	return chain
}

func (f *Feature) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewService(db, f.clock, cfg.AIDailyLimit, completers(cfg), f.topics, cfg.AITimeout)
	handler := NewAssistantHandler(svc)

	router.Get("/assistant/quota", handler.Quota)
	router.Get("/assistant/history", handler.History)
	router.Delete("/assistant/history", handler.ClearHistory)
	router.Post("/assistant/messages",
		middleware.SlidingWindow(10, time.Minute, middleware.RateLimitKeyByUser),
		handler.Send,
	)
}

func (f *Feature) RegisterPublicRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	var upstream Completer
	if c := NewOpenAICompleter(cfg.PerplexityAPIURL, cfg.PerplexityAPIKey, cfg.PerplexityModel); c != nil {
		upstream = c
	}
	handler := NewFunctionHandler(upstream)

	router.Post("/functions/perplexity_chat", middleware.FunctionToken(cfg.AssistantFunctionToken), handler.PerplexityChat)
}
