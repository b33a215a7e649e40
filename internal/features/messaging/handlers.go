package messaging

import (
	"errors"
	"time"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type MessagingHandler struct {
	service *Service
}

func NewMessagingHandler(service *Service) *MessagingHandler {
	return &MessagingHandler{service: service}
}

func messagingStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidMessage), errors.Is(err, ErrSelfConversation):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrContentRejected):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, ErrNotParticipant), errors.Is(err, ErrBlocked):
		return fiber.StatusForbidden
	case errors.Is(err, ErrConversationNotFound), errors.Is(err, ErrRecipientNotFound):
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

func messagingError(c *fiber.Ctx, err error, fallback string) error {
	status := messagingStatus(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = fallback
	}
	return c.Status(status).JSON(fiber.Map{"error": true, "message": msg})
}

// Open handles POST /conversations {user_id}
func (h *MessagingHandler) Open(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	var req struct {
		UserID string `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request body"})
	}
	otherID, err := uuid.Parse(req.UserID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid user ID"})
	}

	conv, err := h.service.Open(c.UserContext(), userID, otherID)
	if err != nil {
		return messagingError(c, err, "Failed to open conversation")
	}
	return c.JSON(conv)
}

func (h *MessagingHandler) List(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	views, err := h.service.List(c.UserContext(), userID)
	if err != nil {
		return messagingError(c, err, "Failed to list conversations")
	}
	return c.JSON(fiber.Map{"conversations": views})
}

// Messages handles GET /conversations/:id/messages?after=<RFC3339>&limit=
func (h *MessagingHandler) Messages(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}
	convID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid conversation ID"})
	}

	var after time.Time
	if raw := c.Query("after"); raw != "" {
		if after, err = time.Parse(time.RFC3339Nano, raw); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "after must be an RFC3339 timestamp"})
		}
	}

	msgs, err := h.service.Messages(c.UserContext(), convID, userID, after, c.QueryInt("limit", defaultPageSize))
	if err != nil {
		return messagingError(c, err, "Failed to load messages")
	}
	return c.JSON(fiber.Map{"messages": msgs})
}

func (h *MessagingHandler) Send(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}
	convID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid conversation ID"})
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request body"})
	}

	msg, err := h.service.Send(c.UserContext(), convID, userID, req.Text)
	if err != nil {
		return messagingError(c, err, "Failed to send message")
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

func (h *MessagingHandler) MarkRead(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}
	convID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid conversation ID"})
	}

	n, err := h.service.MarkRead(c.UserContext(), convID, userID)
	if err != nil {
		return messagingError(c, err, "Failed to mark messages read")
	}
	return c.JSON(fiber.Map{"marked": n})
}
