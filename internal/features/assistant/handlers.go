package assistant

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/identity"
	"github.com/gofiber/fiber/v2"
)

type AssistantHandler struct {
	service *Service
}

func NewAssistantHandler(service *Service) *AssistantHandler {
	return &AssistantHandler{service: service}
}

func (h *AssistantHandler) Quota(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	st, err := h.service.Status(c.UserContext(), userID)
	if err != nil {
		slog.Warn("assistant quota read failed", "feature", "assistant", "user_id", userID.String(), "error", err)
	}
	return c.JSON(st)
}

func (h *AssistantHandler) History(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	msgs, err := h.service.History(c.UserContext(), userID)
	if err != nil {
		slog.Warn("assistant history load failed", "feature", "assistant", "user_id", userID.String(), "error", err)
	}
	return c.JSON(fiber.Map{"messages": msgs})
}

func (h *AssistantHandler) ClearHistory(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	if err := h.service.ClearHistory(c.UserContext(), userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to clear history"})
	}
	return c.JSON(fiber.Map{"message": "History cleared"})
}

func (h *AssistantHandler) Send(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	var req SendRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request body"})
	}

	resp, err := h.service.Send(c.UserContext(), userID, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyMessage), errors.Is(err, ErrMessageTooLong):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": err.Error()})
		case errors.Is(err, ErrQuotaExceeded):
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":   true,
				"message": fmt.Sprintf("You've used all %d assistant messages for today. Come back tomorrow!", h.service.quota.Limit()),
			})
		case errors.Is(err, ErrSendInProgress):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": true, "message": "Please wait for the current reply"})
		case errors.Is(err, ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": "User not found"})
		}
		slog.Error("assistant send failed", "feature", "assistant", "user_id", userID.String(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Could not check your daily limit. Please try again."})
	}
	return c.JSON(resp)
}
