package puzzles

import (
	"errors"
	"strings"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type GameHandler struct {
	service *Service
}

func NewGameHandler(service *Service) *GameHandler {
	return &GameHandler{service: service}
}

func gameStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidFilter), errors.Is(err, ErrInvalidOutcome),
		errors.Is(err, ErrInvalidGuess), errors.Is(err, ErrInvalidScore), errors.Is(err, ErrNotCheckable):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrGameNotFound), errors.Is(err, ErrUserNotFound), errors.Is(err, ErrNoUnseenGame):
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

func gameError(c *fiber.Ctx, err error, fallback string) error {
	status := gameStatus(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = fallback
	}
	return c.Status(status).JSON(fiber.Map{"error": true, "message": msg})
}

func filterFromQuery(c *fiber.Ctx) Filter {
	return Filter{
		Type:       strings.ToLower(strings.TrimSpace(c.Query("type"))),
		Difficulty: normalizeDifficulty(c.Query("difficulty")),
	}
}

// List handles GET /games?type=&difficulty=
func (h *GameHandler) List(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	games, err := h.service.List(c.UserContext(), userID, filterFromQuery(c), c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return gameError(c, err, "Failed to list games")
	}
	return c.JSON(fiber.Map{"games": games})
}

// Next handles GET /games/next?type=&difficulty=
func (h *GameHandler) Next(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	game, err := h.service.Next(c.UserContext(), userID, filterFromQuery(c))
	if err != nil {
		return gameError(c, err, "Failed to pick a game")
	}
	return c.JSON(game)
}

func (h *GameHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid game ID"})
	}
	game, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return gameError(c, err, "Failed to get game")
	}
	return c.JSON(game)
}

func (h *GameHandler) Check(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid game ID"})
	}
	var req CheckRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request body"})
	}

	result, err := h.service.Check(c.UserContext(), id, req)
	if err != nil {
		return gameError(c, err, "Failed to check guess")
	}
	return c.JSON(result)
}

func (h *GameHandler) Result(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid game ID"})
	}
	var req ResultRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request body"})
	}
	req.Outcome = strings.ToLower(strings.TrimSpace(req.Outcome))

	resp, err := h.service.RecordResult(c.UserContext(), userID, id, req)
	if err != nil {
		return gameError(c, err, "Failed to record result")
	}
	return c.JSON(resp)
}

// Leaderboard handles GET /games/leaderboard/:type
func (h *GameHandler) Leaderboard(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}
	gameType := strings.ToLower(c.Params("type"))
	if gameType == models.GameTypeCustom {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Custom games have no leaderboard"})
	}

	board, err := h.service.Leaderboard(c.UserContext(), gameType, userID, c.QueryInt("limit", 20))
	if err != nil {
		return gameError(c, err, "Failed to load leaderboard")
	}
	return c.JSON(board)
}
