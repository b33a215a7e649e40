package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/calendar"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxInputLength = 2000

var (
	ErrEmptyMessage   = errors.New("message text is required")
	ErrMessageTooLong = errors.New("message is too long")
	ErrSendInProgress = errors.New("a message is already being sent")
)

// TopicSource supplies today's discussion question for the system prompt.
type TopicSource interface {
	TodayQuestion(ctx context.Context) (string, error)
}

// Service runs the assistant session: idle -> sending -> (success | error) -> idle,
// with the quota check gating the way into sending.
type Service struct {
	quota     *Quota
	history   *History
	completer Completer
	topics    TopicSource
	clock     *calendar.Clock
	timeout   time.Duration

	sending sync.Map // uuid.UUID -> struct{}
}

func NewService(db *gorm.DB, clock *calendar.Clock, limit int, completer Completer, topics TopicSource, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Service{
		quota:     NewQuota(db, clock, limit),
		history:   NewHistory(db),
		completer: completer,
		topics:    topics,
		clock:     clock,
		timeout:   timeout,
	}
}

// Status is the passive quota read. On failure it returns a status with only the
// limit filled in, plus the error for the caller to log.
func (s *Service) Status(ctx context.Context, userID uuid.UUID) (QuotaStatus, error) {
	st, err := s.quota.Peek(ctx, userID)
	if err != nil {
		return QuotaStatus{Limit: s.quota.Limit(), Remaining: s.quota.Limit(), Day: s.clock.Today()}, err
	}
	return st, nil
}

// History returns the conversation. On failure it returns just the greeting plus the error.
func (s *Service) History(ctx context.Context, userID uuid.UUID) ([]Message, error) {
	now := s.clock.Now()
	msgs, err := s.history.Load(ctx, userID, now)
	if err != nil {
		return []Message{greeting(now)}, err
	}
	return msgs, nil
}

func (s *Service) ClearHistory(ctx context.Context, userID uuid.UUID) error {
	return s.history.Clear(ctx, userID)
}

// Send runs one user turn. Validation and quota errors are returned; completion
// failures are not errors, they produce the apology with Failed set.
func (s *Service) Send(ctx context.Context, userID uuid.UUID, text string) (*SendResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if len([]rune(text)) > maxInputLength {
		return nil, ErrMessageTooLong
	}

	if _, err := s.quota.Check(ctx, userID); err != nil {
		return nil, err
	}

	if _, busy := s.sending.LoadOrStore(userID, struct{}{}); busy {
		return nil, ErrSendInProgress
	}
	defer s.sending.Delete(userID)

	reserved, err := s.quota.Reserve(ctx, userID)
	if err != nil {
		return nil, err
	}

	reply, err := s.complete(ctx, userID, text)
	if err != nil {
		// The request context may already be done; the slot must still be returned.
		bg := context.WithoutCancel(ctx)
		if relErr := s.quota.Release(bg, userID, reserved.Day); relErr != nil {
			slog.Error("failed to release assistant quota", "feature", "assistant", "user_id", userID.String(), "error", relErr)
		}
		slog.Error("assistant completion failed", "feature", "assistant", "user_id", userID.String(), "error", err)
		sentry.CaptureException(err)
		return &SendResponse{Reply: Apology, Failed: true, Remaining: reserved.Remaining + 1}, nil
	}

	if err := s.history.Append(ctx, userID, text, reply, s.clock.Now()); err != nil {
		slog.Error("failed to persist assistant turn", "feature", "assistant", "user_id", userID.String(), "error", err)
	}
	return &SendResponse{Reply: reply, Remaining: reserved.Remaining}, nil
}

func (s *Service) complete(ctx context.Context, userID uuid.UUID, text string) (string, error) {
	history, err := s.History(ctx, userID)
	if err != nil {
		slog.Warn("assistant history unavailable, sending without context", "feature", "assistant", "user_id", userID.String(), "error", err)
	}

	topic := ""
	if s.topics != nil {
		if topic, err = s.topics.TodayQuestion(ctx); err != nil {
			slog.Warn("today's topic unavailable", "feature", "assistant", "error", err)
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.completer.Complete(callCtx, BuildPrompt(topic, history, text))
	if err != nil {
		return "", err
	}
	reply := PostProcess(raw)
	if reply == "" {
		return "", fmt.Errorf("reply empty after clean-up: %w", ErrEmptyReply)
	}
	return reply, nil
}
