package messaging

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation is a two-person thread. UserA always sorts before UserB so a pair
// maps to exactly one row.
type Conversation struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserA         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_conversations_pair" json:"user_a"`
	UserB         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_conversations_pair;index" json:"user_b"`
	LastMessage   string     `gorm:"type:text" json:"last_message"`
	LastMessageAt *time.Time `gorm:"index" json:"last_message_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	models.EnsureID(&c.ID)
	return nil
}

// Other returns the participant that is not userID.
func (c *Conversation) Other(userID uuid.UUID) uuid.UUID {
	if c.UserA == userID {
		return c.UserB
	}
	return c.UserA
}

func (c *Conversation) Has(userID uuid.UUID) bool {
	return c.UserA == userID || c.UserB == userID
}

type DirectMessage struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID uuid.UUID  `gorm:"type:uuid;not null;index:idx_direct_messages_order,priority:1" json:"conversation_id"`
	SenderID       uuid.UUID  `gorm:"type:uuid;not null" json:"sender_id"`
	Text           string     `gorm:"type:text;not null" json:"text"`
	CreatedAt      time.Time  `gorm:"index:idx_direct_messages_order,priority:2" json:"created_at"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
}

func (m *DirectMessage) BeforeCreate(tx *gorm.DB) error {
	models.EnsureID(&m.ID)
	return nil
}

// ConversationView is a conversation from one participant's side.
type ConversationView struct {
	ID            uuid.UUID  `json:"id"`
	OtherUserID   uuid.UUID  `json:"other_user_id"`
	OtherUsername string     `json:"other_username"`
	LastMessage   string     `json:"last_message"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	Unread        int64      `json:"unread"`
}

// canonicalPair orders two ids so (a, b) and (b, a) produce the same key.
func canonicalPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if a.String() > b.String() {
		return b, a
	}
	return a, b
}
