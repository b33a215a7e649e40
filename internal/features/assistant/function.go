package assistant

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const maxFunctionTurns = 32

var functionRoles = map[string]bool{RoleSystem: true, RoleUser: true, RoleAssistant: true}

// FunctionHandler is the self-hosted perplexity_chat endpoint. It answers
// {"reply": ...} on success and {"error": ...} with a non-2xx status otherwise.
type FunctionHandler struct {
	upstream Completer
}

func NewFunctionHandler(upstream Completer) *FunctionHandler {
	return &FunctionHandler{upstream: upstream}
}

func (h *FunctionHandler) PerplexityChat(c *fiber.Ctx) error {
	if h.upstream == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "upstream not configured"})
	}

	var req FunctionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if len(req.Input) == 0 || len(req.Input) > maxFunctionTurns {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "input must hold 1-32 messages"})
	}
	for _, t := range req.Input {
		if !functionRoles[t.Role] || strings.TrimSpace(t.Content) == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "each message needs a valid role and content"})
		}
	}

	reply, err := h.upstream.Complete(c.UserContext(), req.Input)
	if err != nil {
		slog.Error("perplexity_chat upstream failed", "feature", "assistant", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "upstream completion failed"})
	}
	return c.JSON(fiber.Map{"reply": reply})
}
