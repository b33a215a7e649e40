package assistant

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/models"
	"github.com/google/uuid"
)

func TestPeekResetsStaleDay(t *testing.T) {
	db := newTestDB(t)
	id := createUser(t, db, func(u *models.User) {
		u.AIMsgCount = 5
		u.AIMsgDay = "2024-04-30"
	})
	q := NewQuota(db, testClock(), 6)

	st, err := q.Peek(context.Background(), id)
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	if st.Count != 0 || st.Day != "2024-05-01" || st.Remaining != 6 {
		t.Fatalf("status = %+v", st)
	}

	u := loadUser(t, db, id)
	if u.AIMsgCount != 0 || u.AIMsgDay != "2024-05-01" {
		t.Fatalf("stored quota = %d/%q, want reset to today", u.AIMsgCount, u.AIMsgDay)
	}
}

func TestPeekKeepsTodaysCount(t *testing.T) {
	db := newTestDB(t)
	id := createUser(t, db, func(u *models.User) {
		u.AIMsgCount = 4
		u.AIMsgDay = "2024-05-01"
	})

	st, err := NewQuota(db, testClock(), 6).Peek(context.Background(), id)
	if err != nil || st.Count != 4 || st.Remaining != 2 {
		t.Fatalf("Peek = %+v, %v", st, err)
	}
}

func TestCheckBlocksAtLimit(t *testing.T) {
	db := newTestDB(t)
	id := createUser(t, db, func(u *models.User) {
		u.AIMsgCount = 6
		u.AIMsgDay = "2024-05-01"
	})
	q := NewQuota(db, testClock(), 6)

	if _, err := q.Check(context.Background(), id); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("Check err = %v, want ErrQuotaExceeded", err)
	}
	if _, err := q.Check(context.Background(), uuid.New()); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("Check unknown user err = %v", err)
	}
}

func TestReserveStartsNewDayAtOne(t *testing.T) {
	db := newTestDB(t)
	id := createUser(t, db, func(u *models.User) {
		u.AIMsgCount = 6
		u.AIMsgDay = "2024-04-30"
	})

	st, err := NewQuota(db, testClock(), 6).Reserve(context.Background(), id)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if st.Count != 1 || st.Remaining != 5 {
		t.Fatalf("status = %+v", st)
	}
	if u := loadUser(t, db, id); u.AIMsgDay != "2024-05-01" || u.AIMsgCount != 1 {
		t.Fatalf("stored quota = %d/%q", u.AIMsgCount, u.AIMsgDay)
	}
}

func TestReserveNeverExceedsLimit(t *testing.T) {
	db := newTestDB(t)
	id := createUser(t, db, nil)
	q := NewQuota(db, testClock(), 6)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		granted  int
		rejected int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := q.Reserve(context.Background(), id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				granted++
			case errors.Is(err, ErrQuotaExceeded):
				rejected++
			default:
				t.Errorf("Reserve: %v", err)
			}
		}()
	}
	wg.Wait()

	if granted != 6 || rejected != 4 {
		t.Fatalf("granted %d rejected %d, want 6/4", granted, rejected)
	}
	if u := loadUser(t, db, id); u.AIMsgCount != 6 {
		t.Fatalf("stored count = %d", u.AIMsgCount)
	}
}

func TestReleaseFloorsAtZeroAndIgnoresOtherDays(t *testing.T) {
	db := newTestDB(t)
	id := createUser(t, db, func(u *models.User) {
		u.AIMsgCount = 1
		u.AIMsgDay = "2024-05-01"
	})
	q := NewQuota(db, testClock(), 6)
	ctx := context.Background()

	if err := q.Release(ctx, id, "2024-04-30"); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if u := loadUser(t, db, id); u.AIMsgCount != 1 {
		t.Fatalf("release for another day changed count to %d", u.AIMsgCount)
	}

	for i := 0; i < 2; i++ {
		if err := q.Release(ctx, id, "2024-05-01"); err != nil {
			t.Fatalf("Release: %v", err)
		}
	}
	if u := loadUser(t, db, id); u.AIMsgCount != 0 {
		t.Fatalf("count = %d, want floor at 0", u.AIMsgCount)
	}
}
