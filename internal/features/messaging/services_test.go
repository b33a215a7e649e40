package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/testutil"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var timeZero time.Time

func newTestService(t *testing.T) (*Service, *services.ModerationService, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t, &models.User{}, &models.Block{}, &Conversation{}, &DirectMessage{})
	ms := services.NewModerationService(db)
	return NewService(db, ms), ms, db
}

func createUser(t *testing.T, db *gorm.DB, name string) uuid.UUID {
	t.Helper()
	u := models.User{Email: name + "@example.com", Username: name, Password: "x"}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u.ID
}

func TestOpenIsSymmetric(t *testing.T) {
	svc, _, db := newTestService(t)
	ctx := context.Background()
	alice, bob := createUser(t, db, "alice"), createUser(t, db, "bob")

	c1, err := svc.Open(ctx, alice, bob)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	c2, err := svc.Open(ctx, bob, alice)
	if err != nil || c2.ID != c1.ID {
		t.Fatalf("reverse Open = %+v, %v", c2, err)
	}

	if _, err := svc.Open(ctx, alice, alice); !errors.Is(err, ErrSelfConversation) {
		t.Fatalf("self err = %v", err)
	}
	if _, err := svc.Open(ctx, alice, uuid.New()); !errors.Is(err, ErrRecipientNotFound) {
		t.Fatalf("unknown err = %v", err)
	}
}

func TestBlockRejectsEitherDirection(t *testing.T) {
	svc, ms, db := newTestService(t)
	ctx := context.Background()
	alice, bob := createUser(t, db, "alice"), createUser(t, db, "bob")

	conv, err := svc.Open(ctx, alice, bob)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := ms.BlockUser(bob, alice); err != nil {
		t.Fatalf("BlockUser: %v", err)
	}

	if _, err := svc.Open(ctx, alice, bob); !errors.Is(err, ErrBlocked) {
		t.Fatalf("Open after block err = %v", err)
	}
	if _, err := svc.Send(ctx, conv.ID, alice, "hey"); !errors.Is(err, ErrBlocked) {
		t.Fatalf("Send after block err = %v", err)
	}
}

func TestSendListAndMarkRead(t *testing.T) {
	svc, _, db := newTestService(t)
	ctx := context.Background()
	alice, bob, eve := createUser(t, db, "alice"), createUser(t, db, "bob"), createUser(t, db, "eve")

	conv, err := svc.Open(ctx, alice, bob)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	for _, text := range []string{"hi bob", "are you there"} {
		if _, err := svc.Send(ctx, conv.ID, alice, text); err != nil {
			t.Fatalf("Send: %v", err)
		}
	}

	if _, err := svc.Messages(ctx, conv.ID, eve, timeZero, 0); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("outsider err = %v", err)
	}
	if _, err := svc.Send(ctx, conv.ID, bob, ""); !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("empty err = %v", err)
	}
	if _, err := svc.Send(ctx, conv.ID, bob, "email me at bob@example.com"); !errors.Is(err, services.ErrContentRejected) {
		t.Fatalf("contact info err = %v", err)
	}

	msgs, err := svc.Messages(ctx, conv.ID, bob, timeZero, 0)
	if err != nil || len(msgs) != 2 || msgs[0].Text != "hi bob" {
		t.Fatalf("Messages = %+v, %v", msgs, err)
	}

	views, err := svc.List(ctx, bob)
	if err != nil || len(views) != 1 {
		t.Fatalf("List = %+v, %v", views, err)
	}
	v := views[0]
	if v.OtherUserID != alice || v.OtherUsername != "alice" || v.Unread != 2 || v.LastMessage != "are you there" {
		t.Fatalf("view = %+v", v)
	}

	n, err := svc.MarkRead(ctx, conv.ID, bob)
	if err != nil || n != 2 {
		t.Fatalf("MarkRead = %d, %v", n, err)
	}
	views, _ = svc.List(ctx, bob)
	if views[0].Unread != 0 {
		t.Fatalf("unread after mark = %d", views[0].Unread)
	}
	// The sender's own messages never count as unread for them.
	n, _ = svc.MarkRead(ctx, conv.ID, alice)
	if n != 0 {
		t.Fatalf("sender marked %d", n)
	}
}
