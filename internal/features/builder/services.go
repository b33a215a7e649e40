package builder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/services"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrGameNotFound = errors.New("custom game not found")
	ErrNotAuthor    = errors.New("only the author can change this game")
)

type Service struct {
	db         *gorm.DB
	moderation *services.ModerationService
}

func NewService(db *gorm.DB, moderation *services.ModerationService) *Service {
	return &Service{db: db, moderation: moderation}
}

type CreateRequest struct {
	Difficulty string     `json:"difficulty"`
	Definition Definition `json:"definition"`
}

// Create validates def and stores it as a custom game authored by userID.
func (s *Service) Create(ctx context.Context, authorID uuid.UUID, req CreateRequest) (*Document, error) {
	def := req.Definition
	def.Normalize()
	if err := def.Validate(); err != nil {
		return nil, err
	}
	for _, text := range def.Texts() {
		if err := s.moderation.Screen(text); err != nil {
			return nil, err
		}
	}

	difficulty := req.Difficulty
	if !models.Difficulties[difficulty] {
		difficulty = "medium"
	}

	payload, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("failed to encode definition: %w", err)
	}
	game := models.Game{
		Type:       models.GameTypeCustom,
		Difficulty: difficulty,
		Category:   "custom",
		Title:      def.Title,
		Payload:    datatypes.JSON(payload),
		AuthorID:   &authorID,
		Active:     true,
	}
	if err := s.db.WithContext(ctx).Create(&game).Error; err != nil {
		return nil, err
	}
	return &Document{ID: game.ID.String(), Definition: def, Active: game.Active}, nil
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	var game models.Game
	err := s.db.WithContext(ctx).Where("type = ?", models.GameTypeCustom).First(&game, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &game, nil
}

// Get returns the stored definition exactly as the player consumes it.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Document, error) {
	game, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDocument(game)
}

func toDocument(game *models.Game) (*Document, error) {
	var def Definition
	if err := json.Unmarshal(game.Payload, &def); err != nil {
		return nil, fmt.Errorf("corrupt definition for game %s: %w", game.ID, err)
	}
	return &Document{ID: game.ID.String(), Definition: def, Active: game.Active}, nil
}

// Mine lists the games userID built, newest first.
func (s *Service) Mine(ctx context.Context, authorID uuid.UUID) ([]Document, error) {
	var games []models.Game
	err := s.db.WithContext(ctx).
		Where("type = ? AND author_id = ?", models.GameTypeCustom, authorID).
		Order("created_at DESC").
		Find(&games).Error
	if err != nil {
		return nil, err
	}
	docs := make([]Document, 0, len(games))
	for i := range games {
		doc, err := toDocument(&games[i])
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

// SetActive publishes or hides a game. Only its author may do this.
func (s *Service) SetActive(ctx context.Context, authorID, id uuid.UUID, active bool) (*Document, error) {
	game, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if game.AuthorID == nil || *game.AuthorID != authorID {
		return nil, ErrNotAuthor
	}
	if err := s.db.WithContext(ctx).Model(game).Update("active", active).Error; err != nil {
		return nil, err
	}
	game.Active = active
	return toDocument(game)
}
