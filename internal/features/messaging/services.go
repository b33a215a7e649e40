package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/services"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	maxMessageLength = 1000
	defaultPageSize  = 50
	maxPageSize      = 100
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNotParticipant       = errors.New("not a participant in this conversation")
	ErrSelfConversation     = errors.New("cannot message yourself")
	ErrRecipientNotFound    = errors.New("recipient not found")
	ErrBlocked              = errors.New("messaging is blocked between these users")
	ErrInvalidMessage       = fmt.Errorf("message must be 1-%d characters", maxMessageLength)
)

type Service struct {
	db         *gorm.DB
	moderation *services.ModerationService
}

func NewService(db *gorm.DB, moderation *services.ModerationService) *Service {
	return &Service{db: db, moderation: moderation}
}

// Open returns the conversation between userID and otherID, creating it on first contact.
func (s *Service) Open(ctx context.Context, userID, otherID uuid.UUID) (*Conversation, error) {
	if userID == otherID {
		return nil, ErrSelfConversation
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", otherID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrRecipientNotFound
	}

	blocked, err := s.moderation.IsBlocked(userID, otherID)
	if err != nil {
		return nil, fmt.Errorf("failed to check blocks: %w", err)
	}
	if blocked {
		return nil, ErrBlocked
	}

	a, b := canonicalPair(userID, otherID)
	var conv Conversation
	err = s.db.WithContext(ctx).Where("user_a = ? AND user_b = ?", a, b).First(&conv).Error
	if err == nil {
		return &conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	conv = Conversation{UserA: a, UserB: b}
	if err := s.db.WithContext(ctx).Create(&conv).Error; err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		// The other side opened it first.
		conv = Conversation{}
		if err := s.db.WithContext(ctx).Where("user_a = ? AND user_b = ?", a, b).First(&conv).Error; err != nil {
			return nil, err
		}
	}
	return &conv, nil
}

// List returns userID's conversations, most recently active first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]ConversationView, error) {
	var convs []Conversation
	err := s.db.WithContext(ctx).
		Where("user_a = ? OR user_b = ?", userID, userID).
		Order("last_message_at IS NULL, last_message_at DESC, created_at DESC").
		Find(&convs).Error
	if err != nil {
		return nil, err
	}
	if len(convs) == 0 {
		return []ConversationView{}, nil
	}

	ids := make([]uuid.UUID, 0, len(convs))
	others := make([]uuid.UUID, 0, len(convs))
	for _, c := range convs {
		ids = append(ids, c.ID)
		others = append(others, c.Other(userID))
	}

	var unreadRows []struct {
		ConversationID uuid.UUID
		Count          int64
	}
	err = s.db.WithContext(ctx).Model(&DirectMessage{}).
		Select("conversation_id, COUNT(*) AS count").
		Where("conversation_id IN ? AND sender_id <> ? AND read_at IS NULL", ids, userID).
		Group("conversation_id").
		Scan(&unreadRows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count unread: %w", err)
	}
	unread := make(map[uuid.UUID]int64, len(unreadRows))
	for _, r := range unreadRows {
		unread[r.ConversationID] = r.Count
	}

	var users []models.User
	if err := s.db.WithContext(ctx).Select("id", "username").Where("id IN ?", others).Find(&users).Error; err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}

	views := make([]ConversationView, 0, len(convs))
	for _, c := range convs {
		other := c.Other(userID)
		views = append(views, ConversationView{
			ID:            c.ID,
			OtherUserID:   other,
			OtherUsername: names[other],
			LastMessage:   c.LastMessage,
			LastMessageAt: c.LastMessageAt,
			Unread:        unread[c.ID],
		})
	}
	return views, nil
}

func (s *Service) participant(ctx context.Context, conversationID, userID uuid.UUID) (*Conversation, error) {
	var conv Conversation
	if err := s.db.WithContext(ctx).First(&conv, "id = ?", conversationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	if !conv.Has(userID) {
		return nil, ErrNotParticipant
	}
	return &conv, nil
}

// Messages lists messages after the cursor, oldest first.
func (s *Service) Messages(ctx context.Context, conversationID, userID uuid.UUID, after time.Time, limit int) ([]DirectMessage, error) {
	if _, err := s.participant(ctx, conversationID, userID); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Where("conversation_id = ?", conversationID)
	if !after.IsZero() {
		query = query.Where("created_at > ?", after)
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	msgs := []DirectMessage{}
	err := query.Order("created_at ASC, id ASC").Limit(limit).Find(&msgs).Error
	return msgs, err
}

func (s *Service) Send(ctx context.Context, conversationID, senderID uuid.UUID, text string) (*DirectMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" || len([]rune(text)) > maxMessageLength {
		return nil, ErrInvalidMessage
	}

	conv, err := s.participant(ctx, conversationID, senderID)
	if err != nil {
		return nil, err
	}
	blocked, err := s.moderation.IsBlocked(senderID, conv.Other(senderID))
	if err != nil {
		return nil, fmt.Errorf("failed to check blocks: %w", err)
	}
	if blocked {
		return nil, ErrBlocked
	}
	if err := s.moderation.Screen(text); err != nil {
		return nil, err
	}

	msg := DirectMessage{ConversationID: conversationID, SenderID: senderID, Text: text}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}
		return tx.Model(&Conversation{}).Where("id = ?", conversationID).Updates(map[string]interface{}{
			"last_message":    text,
			"last_message_at": msg.CreatedAt,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// MarkRead stamps every unread incoming message and returns how many changed.
func (s *Service) MarkRead(ctx context.Context, conversationID, userID uuid.UUID) (int64, error) {
	if _, err := s.participant(ctx, conversationID, userID); err != nil {
		return 0, err
	}
	result := s.db.WithContext(ctx).Model(&DirectMessage{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversationID, userID).
		Update("read_at", time.Now())
	return result.RowsAffected, result.Error
}
