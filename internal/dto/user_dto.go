package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/models"
	"github.com/google/uuid"
)

// ProfileResponse is the caller's own view of their record.
type ProfileResponse struct {
	ID               uuid.UUID        `json:"id"`
	Email            string           `json:"email"`
	Username         string           `json:"username"`
	SeenGameIDs      []string         `json:"seen_game_ids"`
	CompletedGameIDs []string         `json:"completed_game_ids"`
	SkippedGameIDs   []string         `json:"skipped_game_ids"`
	Stats            models.UserStats `json:"stats"`
	StreakCount      int              `json:"streak_count"`
	CreatedAt        time.Time        `json:"created_at"`
}

// PublicProfileResponse is what other players see.
type PublicProfileResponse struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	StreakCount    int       `json:"streak_count"`
	CompletedCount int       `json:"completed_count"`
	Followers      int64     `json:"followers"`
	Following      int64     `json:"following"`
}

type UsernameAvailabilityResponse struct {
	Username  string `json:"username"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}
