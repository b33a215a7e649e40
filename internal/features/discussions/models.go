package discussions

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Discussion is an anonymous chat room, usually attached to a daily topic.
type Discussion struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TopicID       *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"topic_id,omitempty"`
	Title         string     `gorm:"size:500;not null" json:"title"`
	MessageCount  int        `gorm:"default:0" json:"message_count"`
	LastMessageAt *time.Time `gorm:"index" json:"last_message_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (d *Discussion) BeforeCreate(tx *gorm.DB) error {
	models.EnsureID(&d.ID)
	return nil
}

// Message is one post. UserID never leaves the server; readers see Alias.
type Message struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DiscussionID uuid.UUID `gorm:"type:uuid;not null;index:idx_discussion_messages_order,priority:1" json:"discussion_id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Alias        string    `gorm:"size:60;not null" json:"alias"`
	Text         string    `gorm:"type:text;not null" json:"text"`
	CreatedAt    time.Time `gorm:"index:idx_discussion_messages_order,priority:2" json:"created_at"`
}

func (Message) TableName() string { return "discussion_messages" }

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	models.EnsureID(&m.ID)
	return nil
}

// MessageView is a message as a given reader sees it.
type MessageView struct {
	ID        uuid.UUID `json:"id"`
	Alias     string    `json:"alias"`
	Text      string    `json:"text"`
	Mine      bool      `json:"mine"`
	CreatedAt time.Time `json:"created_at"`
}
