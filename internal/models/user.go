package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StatLine aggregates play results for one category or difficulty.
type StatLine struct {
	Played    int `json:"played"`
	Completed int `json:"completed"`
	Skipped   int `json:"skipped"`
	BestScore int `json:"best_score"`
}

// UserStats holds per-category and per-difficulty game statistics.
type UserStats struct {
	Categories   map[string]StatLine `json:"categories"`
	Difficulties map[string]StatLine `json:"difficulties"`
}

// User is the single mutable record per player. Several features write to it
// independently; counters that must not lose updates use conditional SQL updates.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Username     string    `gorm:"not null;size:30;uniqueIndex" json:"username"`
	Password     string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"size:20;default:'user'" json:"role"`
	AuthProvider string    `gorm:"size:50;default:'email'" json:"-"`

	SeenGameIDs      datatypes.JSONSlice[string]   `gorm:"default:'[]'" json:"seen_game_ids"`
	CompletedGameIDs datatypes.JSONSlice[string]   `gorm:"default:'[]'" json:"completed_game_ids"`
	SkippedGameIDs   datatypes.JSONSlice[string]   `gorm:"default:'[]'" json:"skipped_game_ids"`
	Stats            datatypes.JSONType[UserStats] `gorm:"default:'{}'" json:"stats"`
	StreakCount      int                           `gorm:"default:0" json:"streak_count"`
	LastPlayedDay    string                        `gorm:"size:10" json:"last_played_day"`

	AIMsgCount int    `gorm:"column:ai_msg_count;default:0" json:"ai_msg_count"`
	AIMsgDay   string `gorm:"column:ai_msg_day;size:10" json:"ai_msg_day"`

	// Parallel arrays written by older clients; kept in lockstep with assistant_messages.
	QuestionHistory datatypes.JSONSlice[string] `gorm:"default:'[]'" json:"-"`
	AnswerHistory   datatypes.JSONSlice[string] `gorm:"default:'[]'" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	EnsureID(&u.ID)
	if u.SeenGameIDs == nil {
		u.SeenGameIDs = datatypes.JSONSlice[string]{}
	}
	if u.CompletedGameIDs == nil {
		u.CompletedGameIDs = datatypes.JSONSlice[string]{}
	}
	if u.SkippedGameIDs == nil {
		u.SkippedGameIDs = datatypes.JSONSlice[string]{}
	}
	if u.QuestionHistory == nil {
		u.QuestionHistory = datatypes.JSONSlice[string]{}
	}
	if u.AnswerHistory == nil {
		u.AnswerHistory = datatypes.JSONSlice[string]{}
	}
	stats := u.Stats.Data()
	if stats.Categories == nil || stats.Difficulties == nil {
		if stats.Categories == nil {
			stats.Categories = map[string]StatLine{}
		}
		if stats.Difficulties == nil {
			stats.Difficulties = map[string]StatLine{}
		}
		u.Stats = datatypes.NewJSONType(stats)
	}
	return nil
}
