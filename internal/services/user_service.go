package services

import (
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) find(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// Profile is the caller's own record.
func (s *UserService) Profile(id uuid.UUID) (*dto.ProfileResponse, error) {
	user, err := s.find(id)
	if err != nil {
		return nil, err
	}
	return &dto.ProfileResponse{
		ID:               user.ID,
		Email:            user.Email,
		Username:         user.Username,
		SeenGameIDs:      user.SeenGameIDs,
		CompletedGameIDs: user.CompletedGameIDs,
		SkippedGameIDs:   user.SkippedGameIDs,
		Stats:            user.Stats.Data(),
		StreakCount:      user.StreakCount,
		CreatedAt:        user.CreatedAt,
	}, nil
}

// PublicProfile is what other players see, with follow counts.
func (s *UserService) PublicProfile(id uuid.UUID) (*dto.PublicProfileResponse, error) {
	user, err := s.find(id)
	if err != nil {
		return nil, err
	}

	resp := &dto.PublicProfileResponse{
		ID:             user.ID,
		Username:       user.Username,
		StreakCount:    user.StreakCount,
		CompletedCount: len(user.CompletedGameIDs),
	}
	if err := s.db.Model(&models.Follow{}).Where("followee_id = ?", id).Count(&resp.Followers).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Follow{}).Where("follower_id = ?", id).Count(&resp.Following).Error; err != nil {
		return nil, err
	}
	return resp, nil
}

// UsernameAvailability never errors on a malformed name; it reports it unavailable.
func (s *UserService) UsernameAvailability(name string) (*dto.UsernameAvailabilityResponse, error) {
	normalized, err := NormalizeUsername(name)
	if err != nil {
		return &dto.UsernameAvailabilityResponse{Username: name, Reason: err.Error()}, nil
	}

	taken, err := UsernameTaken(s.db, normalized)
	if err != nil {
		return nil, err
	}
	resp := &dto.UsernameAvailabilityResponse{Username: normalized, Available: !taken}
	if taken {
		resp.Reason = ErrUsernameTaken.Error()
	}
	return resp, nil
}
