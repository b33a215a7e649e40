package builder

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type BuilderHandler struct {
	service *Service
}

func NewBuilderHandler(service *Service) *BuilderHandler {
	return &BuilderHandler{service: service}
}

func builderError(c *fiber.Ctx, err error, fallback string) error {
	var invalid *ValidationError
	var rejected *services.RejectionError
	switch {
	case errors.As(err, &invalid):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": "Invalid game definition", "fields": invalid.Fields,
		})
	case errors.As(err, &rejected):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": true, "message": rejected.Error(), "reason": rejected.Reason,
		})
	case errors.Is(err, ErrGameNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": err.Error()})
	case errors.Is(err, ErrNotAuthor):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": true, "message": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": fallback})
}

// Create handles POST /builder/games
func (h *BuilderHandler) Create(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}
	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request body"})
	}

	doc, err := h.service.Create(c.UserContext(), userID, req)
	if err != nil {
		return builderError(c, err, "Failed to save game")
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

// Validate handles POST /builder/validate, a dry run for the editor.
func (h *BuilderHandler) Validate(c *fiber.Ctx) error {
	var def Definition
	if err := c.BodyParser(&def); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request body"})
	}
	def.Normalize()
	if err := def.Validate(); err != nil {
		return builderError(c, err, "Failed to validate game")
	}
	return c.JSON(fiber.Map{"valid": true})
}

func (h *BuilderHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid game ID"})
	}
	doc, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return builderError(c, err, "Failed to load game")
	}
	return c.JSON(doc)
}

func (h *BuilderHandler) Mine(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}
	docs, err := h.service.Mine(c.UserContext(), userID)
	if err != nil {
		return builderError(c, err, "Failed to list games")
	}
	return c.JSON(fiber.Map{"games": docs})
}

// SetActive handles PUT /builder/games/:id/active {active}
func (h *BuilderHandler) SetActive(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid game ID"})
	}
	var req struct {
		Active bool `json:"active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request body"})
	}

	doc, err := h.service.SetActive(c.UserContext(), userID, id, req.Active)
	if err != nil {
		return builderError(c, err, "Failed to update game")
	}
	return c.JSON(doc)
}
