package discussions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/features/topics"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/services"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	maxMessageLength = 500
	defaultPageSize  = 50
	maxPageSize      = 100
)

var (
	ErrDiscussionNotFound = errors.New("discussion not found")
	ErrInvalidMessage     = errors.New("message must be 1-500 characters")
	ErrTitleRequired      = errors.New("title is required")
)

type Service struct {
	db         *gorm.DB
	topics     *topics.Service
	moderation *services.ModerationService
}

func NewService(db *gorm.DB, topicService *topics.Service, moderation *services.ModerationService) *Service {
	return &Service{db: db, topics: topicService, moderation: moderation}
}

// List returns the most recently active discussions first.
func (s *Service) List(ctx context.Context, limit int) ([]Discussion, error) {
	limit = clampLimit(limit)
	list := []Discussion{}
	err := s.db.WithContext(ctx).
		Order("last_message_at IS NULL, last_message_at DESC, created_at DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Discussion, error) {
	var d Discussion
	if err := s.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDiscussionNotFound
		}
		return nil, err
	}
	return &d, nil
}

// ForTopic returns the discussion attached to a topic, opening it on first use.
func (s *Service) ForTopic(ctx context.Context, topicID uuid.UUID) (*Discussion, error) {
	db := s.db.WithContext(ctx)

	var d Discussion
	err := db.Where("topic_id = ?", topicID).First(&d).Error
	if err == nil {
		return &d, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	topic, err := s.topics.Get(ctx, topicID)
	if err != nil {
		return nil, err
	}

	d = Discussion{TopicID: &topic.ID, Title: topic.Question}
	if err := db.Create(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := db.Where("topic_id = ?", topicID).First(&d).Error; err == nil {
				return &d, nil
			}
		}
		return nil, fmt.Errorf("failed to open discussion: %w", err)
	}
	return &d, nil
}

// Create opens a free-standing discussion (admin).
func (s *Service) Create(ctx context.Context, title string) (*Discussion, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	d := Discussion{Title: title}
	if err := s.db.WithContext(ctx).Create(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// Post screens and stores a message under the author's alias.
func (s *Service) Post(ctx context.Context, discussionID, userID uuid.UUID, text string) (*MessageView, error) {
	text = strings.TrimSpace(text)
	if text == "" || len([]rune(text)) > maxMessageLength {
		return nil, ErrInvalidMessage
	}
	if err := s.moderation.Screen(text); err != nil {
		return nil, err
	}

	msg := Message{
		DiscussionID: discussionID,
		UserID:       userID,
		Alias:        Alias(discussionID, userID),
		Text:         text,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Discussion{}).Where("id = ?", discussionID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrDiscussionNotFound
		}
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}
		return tx.Model(&Discussion{}).Where("id = ?", discussionID).Updates(map[string]interface{}{
			"message_count":   gorm.Expr("message_count + 1"),
			"last_message_at": msg.CreatedAt,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &MessageView{ID: msg.ID, Alias: msg.Alias, Text: msg.Text, Mine: true, CreatedAt: msg.CreatedAt}, nil
}

// Messages returns posts after the cursor in (created_at, id) order. Posts by
// users the viewer has blocked are left out.
func (s *Service) Messages(ctx context.Context, discussionID, viewerID uuid.UUID, after time.Time, limit int) ([]MessageView, error) {
	if _, err := s.Get(ctx, discussionID); err != nil {
		return nil, err
	}

	blocked, err := s.moderation.BlockedIDs(viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load blocks: %w", err)
	}

	query := s.db.WithContext(ctx).Where("discussion_id = ?", discussionID)
	if !after.IsZero() {
		query = query.Where("created_at > ?", after)
	}
	if len(blocked) > 0 {
		query = query.Where("user_id NOT IN ?", blocked)
	}

	var msgs []Message
	if err := query.Order("created_at ASC, id ASC").Limit(clampLimit(limit)).Find(&msgs).Error; err != nil {
		return nil, err
	}

	views := make([]MessageView, 0, len(msgs))
	for _, m := range msgs {
		views = append(views, MessageView{
			ID:        m.ID,
			Alias:     m.Alias,
			Text:      m.Text,
			Mine:      m.UserID == viewerID,
			CreatedAt: m.CreatedAt,
		})
	}
	return views, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}
