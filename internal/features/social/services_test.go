package social

import (
	"context"
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/testutil"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *services.ModerationService, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t, &models.User{}, &models.Follow{}, &models.Block{}, &models.Game{}, &GameLike{}, &GameComment{})
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

func createGame(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	g := models.Game{Type: models.GameTypeRiddle, Difficulty: "easy", Title: "Riddle", Payload: datatypes.JSON(`{}`), Active: true}
	if err := db.Create(&g).Error; err != nil {
		t.Fatalf("create game: %v", err)
	}
	return g.ID
}

func TestFollowLifecycle(t *testing.T) {
	svc, _, db := newTestService(t)
	ctx := context.Background()
	alice, bob := createUser(t, db, "alice"), createUser(t, db, "bob")

	if err := svc.Follow(ctx, alice, alice); !errors.Is(err, ErrSelfFollow) {
		t.Fatalf("self follow err = %v", err)
	}
	if err := svc.Follow(ctx, alice, uuid.New()); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unknown user err = %v", err)
	}
	if err := svc.Follow(ctx, alice, bob); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if err := svc.Follow(ctx, alice, bob); !errors.Is(err, ErrAlreadyFollowing) {
		t.Fatalf("duplicate follow err = %v", err)
	}

	followers, err := svc.Followers(ctx, bob, 0, 0)
	if err != nil || len(followers) != 1 || followers[0].Username != "alice" {
		t.Fatalf("Followers = %+v, %v", followers, err)
	}
	following, err := svc.Following(ctx, alice, 0, 0)
	if err != nil || len(following) != 1 || following[0].UserID != bob {
		t.Fatalf("Following = %+v, %v", following, err)
	}

	if err := svc.Unfollow(ctx, alice, bob); err != nil {
		t.Fatalf("Unfollow: %v", err)
	}
	if err := svc.Unfollow(ctx, alice, bob); !errors.Is(err, ErrNotFollowing) {
		t.Fatalf("second unfollow err = %v", err)
	}
}

func TestToggleLikeKeepsCount(t *testing.T) {
	svc, _, db := newTestService(t)
	ctx := context.Background()
	game := createGame(t, db)
	alice, bob := uuid.New(), uuid.New()

	steps := []struct {
		user  uuid.UUID
		liked bool
		count int
	}{
		{alice, true, 1},
		{bob, true, 2},
		{alice, false, 1},
		{alice, true, 2},
	}
	for i, step := range steps {
		state, err := svc.ToggleLike(ctx, step.user, game)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if state.Liked != step.liked || state.LikeCount != step.count {
			t.Fatalf("step %d: got %+v, want liked=%v count=%d", i, state, step.liked, step.count)
		}
	}

	if _, err := svc.ToggleLike(ctx, alice, uuid.New()); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("unknown game err = %v", err)
	}
}

func TestCommentsAreModeratedAndCounted(t *testing.T) {
	svc, ms, db := newTestService(t)
	ctx := context.Background()
	game := createGame(t, db)
	alice, bob := createUser(t, db, "alice"), createUser(t, db, "bob")

	if _, err := svc.AddComment(ctx, alice, game, ""); !errors.Is(err, ErrInvalidComment) {
		t.Fatalf("empty err = %v", err)
	}
	if _, err := svc.AddComment(ctx, alice, game, "see www.cheats.example now"); !errors.Is(err, services.ErrContentRejected) {
		t.Fatalf("url err = %v", err)
	}
	c, err := svc.AddComment(ctx, alice, game, "Tricky one!")
	if err != nil || c.Username != "alice" {
		t.Fatalf("AddComment = %+v, %v", c, err)
	}

	var g models.Game
	db.First(&g, "id = ?", game)
	if g.CommentCount != 1 {
		t.Fatalf("comment_count = %d", g.CommentCount)
	}

	list, err := svc.Comments(ctx, game, bob, 0, 0)
	if err != nil || len(list) != 1 {
		t.Fatalf("Comments = %+v, %v", list, err)
	}
	if err := ms.BlockUser(bob, alice); err != nil {
		t.Fatalf("BlockUser: %v", err)
	}
	list, _ = svc.Comments(ctx, game, bob, 0, 0)
	if len(list) != 0 {
		t.Fatalf("blocked author still visible: %+v", list)
	}
}
