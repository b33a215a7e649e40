package assistant

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/models"
	"gorm.io/datatypes"
)

func TestReconcileUnevenArrays(t *testing.T) {
	got := Reconcile([]string{"a", "b"}, []string{"x"}, testNow)

	if len(got) != 4 {
		t.Fatalf("len = %d, want greeting + 3", len(got))
	}
	if got[0].ID != GreetingID {
		t.Fatalf("first message = %+v, want greeting", got[0])
	}

	want := []struct {
		text   string
		isUser bool
	}{{"a", true}, {"x", false}, {"b", true}}
	for i, w := range want {
		m := got[i+1]
		if m.Text != w.text || m.IsUser != w.isUser {
			t.Errorf("entry %d = %+v, want %q user=%v", i, m, w.text, w.isUser)
		}
	}

	for i := 1; i < len(got); i++ {
		if !got[i].Timestamp.After(got[i-1].Timestamp) {
			t.Errorf("timestamps not increasing at %d: %v <= %v", i, got[i].Timestamp, got[i-1].Timestamp)
		}
	}
	if got[len(got)-1].Timestamp.After(testNow) {
		t.Error("synthetic timestamp in the future")
	}
}

func TestReconcileExtraAnswers(t *testing.T) {
	got := Reconcile([]string{"a"}, []string{"x", "y"}, testNow)
	if len(got) != 4 || got[3].Text != "y" || got[3].IsUser {
		t.Fatalf("got %+v", got)
	}
}

func TestReconcileEmpty(t *testing.T) {
	got := Reconcile(nil, nil, testNow)
	if len(got) != 1 || got[0].ID != GreetingID {
		t.Fatalf("got %+v, want greeting only", got)
	}
}

func TestHistoryLoadFallsBackToLegacyArrays(t *testing.T) {
	db := newTestDB(t)
	id := createUser(t, db, func(u *models.User) {
		u.QuestionHistory = datatypes.JSONSlice[string]{"q1", "q2"}
		u.AnswerHistory = datatypes.JSONSlice[string]{"a1"}
	})

	msgs, err := NewHistory(db).Load(context.Background(), id, testNow)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(msgs) != 4 || msgs[1].Text != "q1" || msgs[3].Text != "q2" {
		t.Fatalf("msgs = %+v", msgs)
	}
}

func TestHistoryAppendPrefersRecords(t *testing.T) {
	db := newTestDB(t)
	id := createUser(t, db, func(u *models.User) {
		u.QuestionHistory = datatypes.JSONSlice[string]{"old"}
		u.AnswerHistory = datatypes.JSONSlice[string]{"older"}
	})
	h := NewHistory(db)
	ctx := context.Background()

	if err := h.Append(ctx, id, "hello", "hi there", testNow); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := h.Append(ctx, id, "again", "sure", testNow.Add(time.Minute)); err != nil {
		t.Fatalf("Append: %v", err)
	}

	msgs, err := h.Load(ctx, id, testNow)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	texts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		texts = append(texts, m.Text)
	}
	want := []string{GreetingText, "hello", "hi there", "again", "sure"}
	if len(texts) != len(want) {
		t.Fatalf("texts = %q", texts)
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Fatalf("texts = %q, want %q", texts, want)
		}
	}
	if !msgs[1].IsUser || msgs[2].IsUser {
		t.Fatalf("roles wrong: %+v", msgs[1:3])
	}

	u := loadUser(t, db, id)
	if len(u.QuestionHistory) != 3 || u.QuestionHistory[2] != "again" || len(u.AnswerHistory) != 3 {
		t.Fatalf("legacy arrays = %q / %q", u.QuestionHistory, u.AnswerHistory)
	}

	if err := h.Clear(ctx, id); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	msgs, err = h.Load(ctx, id, testNow)
	if err != nil || len(msgs) != 1 {
		t.Fatalf("after Clear = %+v, %v", msgs, err)
	}
}
