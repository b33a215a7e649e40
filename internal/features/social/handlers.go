package social

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SocialHandler struct {
	service *Service
}

func NewSocialHandler(service *Service) *SocialHandler {
	return &SocialHandler{service: service}
}

func socialError(c *fiber.Ctx, err error, fallback string) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrSelfFollow), errors.Is(err, ErrInvalidComment):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrContentRejected):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrGameNotFound), errors.Is(err, ErrNotFollowing):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrAlreadyFollowing):
		status = fiber.StatusConflict
	}
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = fallback
	}
	return c.Status(status).JSON(fiber.Map{"error": true, "message": msg})
}

var (
	errUnauthorized = fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	errInvalidID    = fiber.NewError(fiber.StatusBadRequest, "Invalid ID")
)

// callerAndTarget reads the authenticated user and the :id path param. The
// returned *fiber.Error is rendered by the app's error handler.
func callerAndTarget(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, errUnauthorized
	}
	target, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, errInvalidID
	}
	return userID, target, nil
}

func (h *SocialHandler) Follow(c *fiber.Ctx) error {
	userID, target, err := callerAndTarget(c)
	if err != nil {
		return err
	}
	if err := h.service.Follow(c.UserContext(), userID, target); err != nil {
		return socialError(c, err, "Failed to follow user")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"following": true})
}

func (h *SocialHandler) Unfollow(c *fiber.Ctx) error {
	userID, target, err := callerAndTarget(c)
	if err != nil {
		return err
	}
	if err := h.service.Unfollow(c.UserContext(), userID, target); err != nil {
		return socialError(c, err, "Failed to unfollow user")
	}
	return c.JSON(fiber.Map{"following": false})
}

func (h *SocialHandler) Followers(c *fiber.Ctx) error {
	target, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid user ID"})
	}
	list, err := h.service.Followers(c.UserContext(), target, c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return socialError(c, err, "Failed to list followers")
	}
	return c.JSON(fiber.Map{"followers": list})
}

func (h *SocialHandler) Following(c *fiber.Ctx) error {
	target, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid user ID"})
	}
	list, err := h.service.Following(c.UserContext(), target, c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return socialError(c, err, "Failed to list following")
	}
	return c.JSON(fiber.Map{"following": list})
}

// Like handles POST /games/:id/like; a second call removes the like.
func (h *SocialHandler) Like(c *fiber.Ctx) error {
	userID, gameID, err := callerAndTarget(c)
	if err != nil {
		return err
	}
	state, err := h.service.ToggleLike(c.UserContext(), userID, gameID)
	if err != nil {
		return socialError(c, err, "Failed to update like")
	}
	return c.JSON(state)
}

func (h *SocialHandler) Comments(c *fiber.Ctx) error {
	userID, gameID, err := callerAndTarget(c)
	if err != nil {
		return err
	}
	comments, err := h.service.Comments(c.UserContext(), gameID, userID, c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return socialError(c, err, "Failed to load comments")
	}
	return c.JSON(fiber.Map{"comments": comments})
}

func (h *SocialHandler) AddComment(c *fiber.Ctx) error {
	userID, gameID, err := callerAndTarget(c)
	if err != nil {
		return err
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request body"})
	}

	comment, err := h.service.AddComment(c.UserContext(), userID, gameID, req.Text)
	if err != nil {
		return socialError(c, err, "Failed to add comment")
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}
