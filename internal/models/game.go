package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	GameTypeSudoku     = "sudoku"
	GameTypeMastermind = "mastermind"
	GameTypeQuickMath  = "quickmath"
	GameTypeWordle     = "wordle"
	GameTypeRiddle     = "riddle"
	GameTypeCustom     = "custom"
)

var GameTypes = map[string]bool{
	GameTypeSudoku: true, GameTypeMastermind: true, GameTypeQuickMath: true,
	GameTypeWordle: true, GameTypeRiddle: true, GameTypeCustom: true,
}

var Difficulties = map[string]bool{"easy": true, "medium": true, "hard": true}

// Game is one playable puzzle or user-built game. Payload is what the client renders;
// Solution never leaves the server.
type Game struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Type         string         `gorm:"size:20;not null;index:idx_games_type_difficulty,priority:1" json:"type"`
	Difficulty   string         `gorm:"size:10;not null;index:idx_games_type_difficulty,priority:2" json:"difficulty"`
	Category     string         `gorm:"size:50;index" json:"category"`
	Title        string         `gorm:"size:200" json:"title"`
	Payload      datatypes.JSON `gorm:"type:jsonb" json:"payload"`
	Solution     datatypes.JSON `gorm:"type:jsonb" json:"-"`
	AuthorID     *uuid.UUID     `gorm:"type:uuid;index" json:"author_id,omitempty"`
	Active       bool           `gorm:"not null" json:"active"`
	LikeCount    int            `gorm:"default:0" json:"like_count"`
	CommentCount int            `gorm:"default:0" json:"comment_count"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (g *Game) BeforeCreate(tx *gorm.DB) error {
	EnsureID(&g.ID)
	return nil
}
