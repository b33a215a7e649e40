package topics

import (
	"errors"
	"strings"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/identity"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TopicHandler struct {
	service *Service
}

func NewTopicHandler(service *Service) *TopicHandler {
	return &TopicHandler{service: service}
}

// Today handles GET /topics/today
func (h *TopicHandler) Today(c *fiber.Ctx) error {
	q, err := h.service.Today(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": true, "message": "Failed to get today's topic",
		})
	}

	stance := ""
	if userID, err := identity.GetUserID(c); err == nil {
		stance = h.service.UserStance(c.UserContext(), userID, q.ID)
	}
	return c.JSON(newTopicView(*q, stance))
}

// List handles GET /topics?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *TopicHandler) List(c *fiber.Ctx) error {
	questions, err := h.service.Range(c.UserContext(), c.Query("from"), c.Query("to"))
	if err != nil {
		if errors.Is(err, ErrInvalidRange) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": true, "message": "Failed to list topics",
		})
	}
	return c.JSON(fiber.Map{"topics": questions})
}

// Vote handles POST /topics/:id/vote
func (h *TopicHandler) Vote(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	questionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid topic ID"})
	}

	var req struct {
		Stance string `json:"stance"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request body"})
	}

	q, err := h.service.Vote(c.UserContext(), userID, questionID, req.Stance)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidStance):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": err.Error()})
		case errors.Is(err, ErrTopicNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": err.Error()})
		case errors.Is(err, ErrAlreadyVoted):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": true, "message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to record vote"})
	}
	return c.Status(fiber.StatusCreated).JSON(newTopicView(*q, strings.ToLower(strings.TrimSpace(req.Stance))))
}

// Schedule handles POST /admin/topics
func (h *TopicHandler) Schedule(c *fiber.Ctx) error {
	var req struct {
		Question string `json:"question"`
		Date     string `json:"date"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request body"})
	}

	q, err := h.service.Schedule(c.UserContext(), req.Question, req.Date)
	if err != nil {
		switch {
		case errors.Is(err, ErrQuestionRequired), errors.Is(err, ErrInvalidRange):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": err.Error()})
		case errors.Is(err, ErrTopicExists):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": true, "message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to schedule topic"})
	}
	return c.Status(fiber.StatusCreated).JSON(q)
}
