package social

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GameLike struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GameID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_game_likes_pair" json:"game_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_game_likes_pair;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (l *GameLike) BeforeCreate(tx *gorm.DB) error {
	models.EnsureID(&l.ID)
	return nil
}

type GameComment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GameID    uuid.UUID `gorm:"type:uuid;not null;index:idx_game_comments_order,priority:1" json:"game_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Username  string    `gorm:"size:30" json:"username"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"index:idx_game_comments_order,priority:2" json:"created_at"`
}

func (c *GameComment) BeforeCreate(tx *gorm.DB) error {
	models.EnsureID(&c.ID)
	return nil
}

// FollowEntry is one row of a followers or following list.
type FollowEntry struct {
	UserID     uuid.UUID `json:"user_id"`
	Username   string    `json:"username"`
	FollowedAt time.Time `json:"followed_at"`
}

type LikeState struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}
