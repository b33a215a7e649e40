package assistant

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/calendar"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/testutil"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.NewDB(t, &models.User{}, &Record{})
}

func testClock() *calendar.Clock {
	return calendar.Fixed(testNow, time.UTC)
}

func createUser(t *testing.T, db *gorm.DB, mutate func(u *models.User)) uuid.UUID {
	t.Helper()
	u := models.User{
		Email:    uuid.NewString() + "@example.com",
		Username: "u" + uuid.NewString()[:8],
		Password: "x",
	}
	if mutate != nil {
		mutate(&u)
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u.ID
}

func loadUser(t *testing.T, db *gorm.DB, id uuid.UUID) models.User {
	t.Helper()
	var u models.User
	if err := db.First(&u, "id = ?", id).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	return u
}

// stubCompleter records calls and returns a fixed reply or error.
type stubCompleter struct {
	reply string
	err   error
	calls int
	last  []Turn
}

func (s *stubCompleter) Complete(ctx context.Context, input []Turn) (string, error) {
	s.calls++
	s.last = input
	return s.reply, s.err
}

type stubTopics string

func (s stubTopics) TodayQuestion(ctx context.Context) (string, error) {
	return string(s), nil
}
