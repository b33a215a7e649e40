package assistant

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Record is one persisted assistant conversation turn.
type Record struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_assistant_messages_user_created,priority:1" json:"user_id"`
	Role      string    `gorm:"size:10;not null" json:"role"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"index:idx_assistant_messages_user_created,priority:2" json:"created_at"`
}

func (Record) TableName() string {
	return "assistant_messages"
}

func (r *Record) BeforeCreate(tx *gorm.DB) error {
	models.EnsureID(&r.ID)
	return nil
}

// Message is the client view of a turn.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	IsUser    bool      `json:"is_user"`
	Timestamp time.Time `json:"timestamp"`
}

// Turn is one entry of a completion request.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type QuotaStatus struct {
	Count     int    `json:"count"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
	Day       string `json:"day"`
}

type SendRequest struct {
	Text string `json:"text"`
}

type SendResponse struct {
	Reply     string `json:"reply"`
	Failed    bool   `json:"failed"`
	Remaining int    `json:"remaining"`
}

type FunctionRequest struct {
	Input []Turn `json:"input"`
}
