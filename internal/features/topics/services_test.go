package topics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/calendar"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/testutil"
	"github.com/google/uuid"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db := testutil.NewDB(t, &DailyQuestion{}, &Vote{})
	clock := calendar.Fixed(time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC), time.UTC)
	return NewService(db, &cache.Cache{}, clock)
}

func TestTodayCreatesOnceFromSeedPool(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Today(ctx)
	if err != nil {
		t.Fatalf("Today: %v", err)
	}
	if first.Date != "2024-06-10" {
		t.Fatalf("date = %q", first.Date)
	}
	inPool := false
	for _, q := range SeedQuestions {
		if q == first.Question {
			inPool = true
		}
	}
	if !inPool {
		t.Fatalf("question %q not from seed pool", first.Question)
	}

	second, err := svc.Today(ctx)
	if err != nil || second.ID != first.ID {
		t.Fatalf("second Today = %v, %v; want same topic", second, err)
	}

	text, err := svc.TodayQuestion(ctx)
	if err != nil || text != first.Question {
		t.Fatalf("TodayQuestion = %q, %v", text, err)
	}
}

func TestScheduledTopicWins(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Schedule(ctx, "Custom question?", ""); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	q, err := svc.Today(ctx)
	if err != nil || q.Question != "Custom question?" {
		t.Fatalf("Today = %v, %v", q, err)
	}
	if _, err := svc.Schedule(ctx, "Another?", "2024-06-10"); !errors.Is(err, ErrTopicExists) {
		t.Fatalf("duplicate date err = %v", err)
	}
	if _, err := svc.Schedule(ctx, "  ", "2024-06-11"); !errors.Is(err, ErrQuestionRequired) {
		t.Fatalf("blank question err = %v", err)
	}
}

func TestRange(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	for _, d := range []string{"2024-06-01", "2024-06-05", "2024-06-09"} {
		if _, err := svc.Schedule(ctx, "Q "+d, d); err != nil {
			t.Fatalf("Schedule(%s): %v", d, err)
		}
	}

	got, err := svc.Range(ctx, "2024-06-02", "2024-06-09")
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	if len(got) != 2 || got[0].Date != "2024-06-05" || got[1].Date != "2024-06-09" {
		t.Fatalf("Range = %+v", got)
	}

	bad := [][2]string{{"2024-06-09", "2024-06-01"}, {"june", "2024-06-01"}, {"2020-01-01", "2024-01-01"}}
	for _, r := range bad {
		if _, err := svc.Range(ctx, r[0], r[1]); !errors.Is(err, ErrInvalidRange) {
			t.Errorf("Range(%s, %s) err = %v", r[0], r[1], err)
		}
	}
}

func TestVoteOncePerUser(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	q, err := svc.Today(ctx)
	if err != nil {
		t.Fatalf("Today: %v", err)
	}
	alice, bob := uuid.New(), uuid.New()

	if _, err := svc.Vote(ctx, alice, q.ID, "maybe"); !errors.Is(err, ErrInvalidStance) {
		t.Fatalf("bad stance err = %v", err)
	}
	if _, err := svc.Vote(ctx, alice, uuid.New(), StanceAgree); !errors.Is(err, ErrTopicNotFound) {
		t.Fatalf("unknown topic err = %v", err)
	}
	if _, err := svc.Vote(ctx, alice, q.ID, "Agree"); err != nil {
		t.Fatalf("Vote: %v", err)
	}
	if _, err := svc.Vote(ctx, alice, q.ID, StanceDisagree); !errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("second vote err = %v", err)
	}
	updated, err := svc.Vote(ctx, bob, q.ID, StanceDisagree)
	if err != nil {
		t.Fatalf("Vote: %v", err)
	}
	if updated.AgreeCount != 1 || updated.DisagreeCount != 1 {
		t.Fatalf("counts = %d/%d", updated.AgreeCount, updated.DisagreeCount)
	}

	view := newTopicView(*updated, svc.UserStance(ctx, alice, q.ID))
	if !view.Voted || view.UserStance != StanceAgree || view.AgreePercent != 50 || view.DisagreePercent != 50 {
		t.Fatalf("view = %+v", view)
	}
}

func TestTodayQuestionUsesRedis(t *testing.T) {
	svc := newTestService(t)
	c, mr := testutil.NewCache(t)
	svc.cache = c
	ctx := context.Background()

	text, err := svc.TodayQuestion(ctx)
	if err != nil {
		t.Fatalf("TodayQuestion: %v", err)
	}
	cached, err := mr.Get(todayCacheKey("2024-06-10"))
	if err != nil || cached != text {
		t.Fatalf("cached = %q, %v; want %q", cached, err, text)
	}

	// A cached value is served without touching the database.
	mr.Set(todayCacheKey("2024-06-10"), "From cache?")
	if text, _ := svc.TodayQuestion(ctx); text != "From cache?" {
		t.Fatalf("TodayQuestion = %q, want cached value", text)
	}
}

func TestScheduleInvalidatesCachedQuestion(t *testing.T) {
	svc := newTestService(t)
	c, mr := testutil.NewCache(t)
	svc.cache = c
	ctx := context.Background()

	mr.Set(todayCacheKey("2024-06-10"), "Stale?")
	if _, err := svc.Schedule(ctx, "Fresh question?", "2024-06-10"); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if mr.Exists(todayCacheKey("2024-06-10")) {
		t.Fatal("cache entry survived Schedule")
	}
	if text, err := svc.TodayQuestion(ctx); err != nil || text != "Fresh question?" {
		t.Fatalf("TodayQuestion = %q, %v", text, err)
	}
}
