package assistant

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/calendar"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultDailyLimit = 6

var (
	ErrQuotaExceeded = errors.New("daily assistant message limit reached")
	ErrUserNotFound  = errors.New("user not found")
)

// Quota tracks the per-user, per-day assistant message counter stored on the
// user record (ai_msg_count, ai_msg_day).
type Quota struct {
	db    *gorm.DB
	clock *calendar.Clock
	limit int
}

func NewQuota(db *gorm.DB, clock *calendar.Clock, limit int) *Quota {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	return &Quota{db: db, clock: clock, limit: limit}
}

func (q *Quota) Limit() int { return q.limit }

func (q *Quota) status(count int, day string) QuotaStatus {
	remaining := q.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return QuotaStatus{Count: count, Limit: q.limit, Remaining: remaining, Day: day}
}

// read returns today's counter, resetting a stale day stamp to today with a zero count.
func (q *Quota) read(ctx context.Context, userID uuid.UUID) (QuotaStatus, error) {
	today := q.clock.Today()

	var user models.User
	err := q.db.WithContext(ctx).Select("id", "ai_msg_count", "ai_msg_day").
		First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return QuotaStatus{}, ErrUserNotFound
	}
	if err != nil {
		return QuotaStatus{}, fmt.Errorf("failed to read quota: %w", err)
	}

	if user.AIMsgDay == today {
		return q.status(user.AIMsgCount, today), nil
	}

	// Conditioned on the stale day so a concurrent Reserve for today is not wiped.
	err = q.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND COALESCE(ai_msg_day, '') <> ?", userID, today).
		Updates(map[string]interface{}{"ai_msg_count": 0, "ai_msg_day": today}).Error
	if err != nil {
		return QuotaStatus{}, fmt.Errorf("failed to reset quota: %w", err)
	}
	return q.status(0, today), nil
}

// Peek is the passive read used to show the counter. Callers log and ignore errors.
func (q *Quota) Peek(ctx context.Context, userID uuid.UUID) (QuotaStatus, error) {
	return q.read(ctx, userID)
}

// Check is the blocking read before a send. It returns ErrQuotaExceeded at the limit.
func (q *Quota) Check(ctx context.Context, userID uuid.UUID) (QuotaStatus, error) {
	st, err := q.read(ctx, userID)
	if err != nil {
		return st, err
	}
	if st.Count >= q.limit {
		return st, ErrQuotaExceeded
	}
	return st, nil
}

// Reserve atomically takes one slot for today. A stale day restarts the count at 1.
// When no row matches, the ceiling was already reached.
func (q *Quota) Reserve(ctx context.Context, userID uuid.UUID) (QuotaStatus, error) {
	today := q.clock.Today()

	res := q.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND (COALESCE(ai_msg_day, '') <> ? OR ai_msg_count < ?)", userID, today, q.limit).
		Updates(map[string]interface{}{
			"ai_msg_count": gorm.Expr("CASE WHEN ai_msg_day = ? THEN ai_msg_count + 1 ELSE 1 END", today),
			"ai_msg_day":   today,
		})
	if res.Error != nil {
		return QuotaStatus{}, fmt.Errorf("failed to reserve quota: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return q.status(q.limit, today), ErrQuotaExceeded
	}

	var user models.User
	if err := q.db.WithContext(ctx).Select("id", "ai_msg_count").First(&user, "id = ?", userID).Error; err != nil {
		return QuotaStatus{}, fmt.Errorf("failed to read quota: %w", err)
	}
	return q.status(user.AIMsgCount, today), nil
}

// Release returns a slot taken by Reserve on day. It never goes below zero and
// does nothing once the day has rolled over.
func (q *Quota) Release(ctx context.Context, userID uuid.UUID, day string) error {
	return q.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND ai_msg_day = ? AND ai_msg_count > 0", userID, day).
		Update("ai_msg_count", gorm.Expr("ai_msg_count - 1")).Error
}
