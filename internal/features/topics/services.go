package topics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/calendar"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	todayCacheTTL  = 24 * time.Hour
	recentWindow   = 30
	maxRangeDays   = 366
	maxQuestionLen = 500
)

var (
	ErrTopicNotFound    = errors.New("topic not found")
	ErrInvalidStance    = errors.New("stance must be agree or disagree")
	ErrAlreadyVoted     = errors.New("already voted on this topic")
	ErrInvalidRange     = errors.New("from and to must be YYYY-MM-DD dates, from <= to, at most 366 days apart")
	ErrTopicExists      = errors.New("a topic is already scheduled for that date")
	ErrQuestionRequired = errors.New("question must be 1-500 characters")
)

type Service struct {
	db    *gorm.DB
	cache *cache.Cache
	clock *calendar.Clock
}

func NewService(db *gorm.DB, c *cache.Cache, clock *calendar.Clock) *Service {
	return &Service{db: db, cache: c, clock: clock}
}

func todayCacheKey(day string) string {
	return "topics:today:" + day
}

// Today returns today's topic, creating one from SeedQuestions when none is scheduled.
func (s *Service) Today(ctx context.Context) (*DailyQuestion, error) {
	today := s.clock.Today()
	db := s.db.WithContext(ctx)

	var q DailyQuestion
	err := db.Where("date = ?", today).First(&q).Error
	if err == nil {
		return &q, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load today's topic: %w", err)
	}

	q = DailyQuestion{Question: s.pickSeed(ctx, today), Date: today}
	if err := db.Create(&q).Error; err != nil {
		// Another request created it first.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := db.Where("date = ?", today).First(&q).Error; err == nil {
				return &q, nil
			}
		}
		return nil, fmt.Errorf("failed to create today's topic: %w", err)
	}
	slog.Info("daily topic created", "feature", "topics", "date", today)
	return &q, nil
}

// pickSeed avoids questions used in the last recentWindow days when it can.
func (s *Service) pickSeed(ctx context.Context, today string) string {
	since := s.clock.Day(s.clock.Now().AddDate(0, 0, -recentWindow))

	var recent []string
	if err := s.db.WithContext(ctx).Model(&DailyQuestion{}).
		Where("date > ? AND date < ?", since, today).
		Pluck("question", &recent).Error; err != nil {
		slog.Warn("failed to load recent topics", "feature", "topics", "error", err)
	}

	used := make(map[string]bool, len(recent))
	for _, r := range recent {
		used[r] = true
	}

	available := make([]string, 0, len(SeedQuestions))
	for _, q := range SeedQuestions {
		if !used[q] {
			available = append(available, q)
		}
	}
	if len(available) == 0 {
		available = SeedQuestions
	}
	return available[rand.Intn(len(available))]
}

// TodayQuestion returns today's question text, served from Redis when cached.
func (s *Service) TodayQuestion(ctx context.Context) (string, error) {
	key := todayCacheKey(s.clock.Today())
	if text, ok, err := s.cache.GetString(ctx, key); err != nil {
		slog.Warn("topic cache read failed", "feature", "topics", "error", err)
	} else if ok {
		return text, nil
	}

	q, err := s.Today(ctx)
	if err != nil {
		return "", err
	}
	if err := s.cache.SetString(ctx, key, q.Question, todayCacheTTL); err != nil {
		slog.Warn("topic cache write failed", "feature", "topics", "error", err)
	}
	return q.Question, nil
}

// Range lists topics dated from..to inclusive, oldest first.
func (s *Service) Range(ctx context.Context, from, to string) ([]DailyQuestion, error) {
	start, err := s.clock.Parse(from)
	if err != nil {
		return nil, ErrInvalidRange
	}
	end, err := s.clock.Parse(to)
	if err != nil {
		return nil, ErrInvalidRange
	}
	if end.Before(start) || end.Sub(start) > maxRangeDays*24*time.Hour {
		return nil, ErrInvalidRange
	}

	questions := []DailyQuestion{}
	err = s.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order("date ASC").
		Find(&questions).Error
	return questions, err
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*DailyQuestion, error) {
	var q DailyQuestion
	if err := s.db.WithContext(ctx).First(&q, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTopicNotFound
		}
		return nil, err
	}
	return &q, nil
}

// Vote records a stance once per user and bumps the matching counter.
func (s *Service) Vote(ctx context.Context, userID, questionID uuid.UUID, stance string) (*DailyQuestion, error) {
	stance = strings.ToLower(strings.TrimSpace(stance))
	column := ""
	switch stance {
	case StanceAgree:
		column = "agree_count"
	case StanceDisagree:
		column = "disagree_count"
	default:
		return nil, ErrInvalidStance
	}

	var q DailyQuestion
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&q, "id = ?", questionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTopicNotFound
			}
			return err
		}

		var existing int64
		if err := tx.Model(&Vote{}).Where("question_id = ? AND user_id = ?", questionID, userID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyVoted
		}

		if err := tx.Create(&Vote{QuestionID: questionID, UserID: userID, Stance: stance}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyVoted
			}
			return err
		}
		if err := tx.Model(&DailyQuestion{}).Where("id = ?", questionID).
			Update(column, gorm.Expr(column+" + 1")).Error; err != nil {
			return err
		}
		return tx.First(&q, "id = ?", questionID).Error
	})
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// UserStance returns the caller's stance on a question, or "".
func (s *Service) UserStance(ctx context.Context, userID, questionID uuid.UUID) string {
	var v Vote
	if err := s.db.WithContext(ctx).Where("question_id = ? AND user_id = ?", questionID, userID).First(&v).Error; err != nil {
		return ""
	}
	return v.Stance
}

// Schedule creates a topic for a given day (admin).
func (s *Service) Schedule(ctx context.Context, question, date string) (*DailyQuestion, error) {
	question = strings.TrimSpace(question)
	if question == "" || len([]rune(question)) > maxQuestionLen {
		return nil, ErrQuestionRequired
	}
	if date == "" {
		date = s.clock.Today()
	}
	if _, err := s.clock.Parse(date); err != nil {
		return nil, ErrInvalidRange
	}

	q := DailyQuestion{Question: question, Date: date}
	if err := s.db.WithContext(ctx).Create(&q).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTopicExists
		}
		return nil, err
	}
	if err := s.cache.Delete(ctx, todayCacheKey(date)); err != nil {
		slog.Warn("topic cache invalidation failed", "feature", "topics", "error", err)
	}
	return &q, nil
}
