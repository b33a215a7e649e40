package discussions

import (
	"errors"
	"time"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/features/topics"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type DiscussionHandler struct {
	service *Service
}

func NewDiscussionHandler(service *Service) *DiscussionHandler {
	return &DiscussionHandler{service: service}
}

func (h *DiscussionHandler) List(c *fiber.Ctx) error {
	list, err := h.service.List(c.UserContext(), c.QueryInt("limit", defaultPageSize))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to list discussions"})
	}
	return c.JSON(fiber.Map{"discussions": list})
}

func (h *DiscussionHandler) ForTopic(c *fiber.Ctx) error {
	topicID, err := uuid.Parse(c.Params("topicId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid topic ID"})
	}

	d, err := h.service.ForTopic(c.UserContext(), topicID)
	if err != nil {
		if errors.Is(err, topics.ErrTopicNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to open discussion"})
	}
	return c.JSON(d)
}

// Messages handles GET /discussions/:id/messages?after=<RFC3339>&limit=
func (h *DiscussionHandler) Messages(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}
	discussionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid discussion ID"})
	}

	var after time.Time
	if raw := c.Query("after"); raw != "" {
		if after, err = time.Parse(time.RFC3339Nano, raw); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "after must be an RFC3339 timestamp"})
		}
	}

	msgs, err := h.service.Messages(c.UserContext(), discussionID, userID, after, c.QueryInt("limit", defaultPageSize))
	if err != nil {
		if errors.Is(err, ErrDiscussionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to load messages"})
	}
	return c.JSON(fiber.Map{"messages": msgs})
}

func (h *DiscussionHandler) Post(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}
	discussionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid discussion ID"})
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request body"})
	}

	msg, err := h.service.Post(c.UserContext(), discussionID, userID, req.Text)
	if err != nil {
		var rej *services.RejectionError
		switch {
		case errors.Is(err, ErrInvalidMessage):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": err.Error()})
		case errors.As(err, &rej):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": true, "message": rej.Error(), "reason": rej.Reason})
		case errors.Is(err, ErrDiscussionNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to post message"})
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

func (h *DiscussionHandler) Create(c *fiber.Ctx) error {
	var req struct {
		Title string `json:"title"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request body"})
	}

	d, err := h.service.Create(c.UserContext(), req.Title)
	if err != nil {
		if errors.Is(err, ErrTitleRequired) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to create discussion"})
	}
	return c.Status(fiber.StatusCreated).JSON(d)
}
