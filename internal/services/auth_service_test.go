package services

import (
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(t, newTestDB(t))

	tests := []struct {
		name string
		req  dto.RegisterRequest
		want error
	}{
		{"bad email", dto.RegisterRequest{Email: "nope", Username: "alice", Password: "password123"}, ErrWeakRegistration},
		{"short password", dto.RegisterRequest{Email: "a@b.co", Username: "alice", Password: "short"}, ErrWeakRegistration},
		{"bad username", dto.RegisterRequest{Email: "a@b.co", Username: "a!", Password: "password123"}, ErrUsernameInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(&tt.req); !errors.Is(err, tt.want) {
				t.Fatalf("Register err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRegisterClaimsUsernameOnce(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)

	resp := register(t, svc, "Alice@Example.com", "Alice")
	if resp.User.Email != "alice@example.com" || resp.User.Username != "alice" {
		t.Fatalf("user not normalized: %+v", resp.User)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected a token pair")
	}

	_, err := svc.Register(&dto.RegisterRequest{Email: "other@example.com", Username: "alice", Password: "password123"})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("duplicate username err = %v", err)
	}
	_, err = svc.Register(&dto.RegisterRequest{Email: "alice@example.com", Username: "bob", Password: "password123"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate email err = %v", err)
	}

	var shard models.UsernameShard
	if err := db.First(&shard).Error; err != nil {
		t.Fatalf("load shard: %v", err)
	}
	if shard.Count != 1 || len(shard.Names) != 1 || shard.Names[0] != "alice" {
		t.Fatalf("shard = %+v", shard)
	}
}

func TestLoginRefreshLogout(t *testing.T) {
	svc := newAuthService(t, newTestDB(t))
	register(t, svc, "bob@example.com", "bob")

	if _, err := svc.Login(&dto.LoginRequest{Email: "bob@example.com", Password: "wrong-password"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v", err)
	}
	login, err := svc.Login(&dto.LoginRequest{Email: "BOB@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	rotated, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: login.RefreshToken})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if _, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: login.RefreshToken}); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("reused refresh token err = %v", err)
	}

	if err := svc.Logout(&dto.LogoutRequest{RefreshToken: rotated.RefreshToken}); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: rotated.RefreshToken}); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh after logout err = %v", err)
	}
}

func TestDeleteAccountFreesUsername(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)
	resp := register(t, svc, "carol@example.com", "carol")

	if err := svc.DeleteAccount(resp.User.ID, ""); !errors.Is(err, ErrPasswordRequired) {
		t.Fatalf("empty password err = %v", err)
	}
	if err := svc.DeleteAccount(resp.User.ID, "bad-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("bad password err = %v", err)
	}
	if err := svc.DeleteAccount(resp.User.ID, "password123"); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}

	taken, err := UsernameTaken(db, "carol")
	if err != nil || taken {
		t.Fatalf("UsernameTaken after delete = %v, %v", taken, err)
	}
	register(t, svc, "carol@example.com", "carol")
}

type purgerFunc func(tx *gorm.DB, userID uuid.UUID) error

func (f purgerFunc) PurgeUser(tx *gorm.DB, userID uuid.UUID) error { return f(tx, userID) }

func TestDeleteAccountRunsPurgers(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)
	resp := register(t, svc, "dan@example.com", "dan")

	var purged []uuid.UUID
	svc.OnDeleteAccount(purgerFunc(func(tx *gorm.DB, userID uuid.UUID) error {
		purged = append(purged, userID)
		return nil
	}))
	if err := svc.DeleteAccount(resp.User.ID, "password123"); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
	if len(purged) != 1 || purged[0] != resp.User.ID {
		t.Fatalf("purged = %v", purged)
	}
}

func TestDeleteAccountRollsBackWhenPurgeFails(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)
	resp := register(t, svc, "erin@example.com", "erin")

	boom := errors.New("boom")
	svc.OnDeleteAccount(purgerFunc(func(tx *gorm.DB, userID uuid.UUID) error { return boom }))
	if err := svc.DeleteAccount(resp.User.ID, "password123"); !errors.Is(err, boom) {
		t.Fatalf("DeleteAccount err = %v", err)
	}

	var count int64
	db.Model(&models.User{}).Where("id = ?", resp.User.ID).Count(&count)
	if count != 1 {
		t.Fatal("user deleted despite failed purge")
	}
	if taken, _ := UsernameTaken(db, "erin"); !taken {
		t.Fatal("username released despite failed purge")
	}
}
