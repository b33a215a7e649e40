package social

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/services"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxCommentLength = 500

var (
	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrNotFollowing     = errors.New("not following this user")
	ErrUserNotFound     = errors.New("user not found")
	ErrGameNotFound     = errors.New("game not found")
	ErrInvalidComment   = fmt.Errorf("comment must be 1-%d characters", maxCommentLength)
)

type Service struct {
	db         *gorm.DB
	moderation *services.ModerationService
}

func NewService(db *gorm.DB, moderation *services.ModerationService) *Service {
	return &Service{db: db, moderation: moderation}
}

func (s *Service) Follow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	if followerID == followeeID {
		return ErrSelfFollow
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", followeeID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}

	err := s.db.WithContext(ctx).Create(&models.Follow{FollowerID: followerID, FolloweeID: followeeID}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyFollowing
	}
	return err
}

func (s *Service) Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFollowing
	}
	return nil
}

// Followers lists who follows userID, newest first.
func (s *Service) Followers(ctx context.Context, userID uuid.UUID, limit, offset int) ([]FollowEntry, error) {
	return s.followList(ctx, "follows.follower_id", "follows.followee_id = ?", userID, limit, offset)
}

// Following lists who userID follows, newest first.
func (s *Service) Following(ctx context.Context, userID uuid.UUID, limit, offset int) ([]FollowEntry, error) {
	return s.followList(ctx, "follows.followee_id", "follows.follower_id = ?", userID, limit, offset)
}

func (s *Service) followList(ctx context.Context, joinCol, where string, userID uuid.UUID, limit, offset int) ([]FollowEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	entries := []FollowEntry{}
	err := s.db.WithContext(ctx).Table("follows").
		Select("users.id AS user_id, users.username AS username, follows.created_at AS followed_at").
		Joins("JOIN users ON users.id = "+joinCol+" AND users.deleted_at IS NULL").
		Where(where, userID).
		Order("follows.created_at DESC").
		Limit(limit).Offset(offset).
		Scan(&entries).Error
	return entries, err
}

// ToggleLike likes the game, or removes an existing like, keeping like_count in step.
func (s *Service) ToggleLike(ctx context.Context, userID, gameID uuid.UUID) (*LikeState, error) {
	state := &LikeState{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var game models.Game
		if err := tx.Select("id").First(&game, "id = ?", gameID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGameNotFound
			}
			return err
		}

		removed := tx.Where("game_id = ? AND user_id = ?", gameID, userID).Delete(&GameLike{})
		if removed.Error != nil {
			return removed.Error
		}
		delta := "like_count - 1"
		if removed.RowsAffected == 0 {
			if err := tx.Create(&GameLike{GameID: gameID, UserID: userID}).Error; err != nil {
				return err
			}
			delta = "like_count + 1"
			state.Liked = true
		}
		if err := tx.Model(&models.Game{}).Where("id = ?", gameID).
			UpdateColumn("like_count", gorm.Expr(delta)).Error; err != nil {
			return err
		}
		return tx.Model(&models.Game{}).Select("like_count").Where("id = ?", gameID).Scan(&state.LikeCount).Error
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

// Comments lists a game's comments oldest first, leaving out authors the viewer blocked.
func (s *Service) Comments(ctx context.Context, gameID, viewerID uuid.UUID, limit, offset int) ([]GameComment, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query := s.db.WithContext(ctx).Where("game_id = ?", gameID)

	blocked, err := s.moderation.BlockedIDs(viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load blocks: %w", err)
	}
	if len(blocked) > 0 {
		query = query.Where("user_id NOT IN ?", blocked)
	}

	comments := []GameComment{}
	err = query.Order("created_at ASC, id ASC").Limit(limit).Offset(offset).Find(&comments).Error
	return comments, err
}

func (s *Service) AddComment(ctx context.Context, userID, gameID uuid.UUID, text string) (*GameComment, error) {
	text = strings.TrimSpace(text)
	if text == "" || len([]rune(text)) > maxCommentLength {
		return nil, ErrInvalidComment
	}
	if err := s.moderation.Screen(text); err != nil {
		return nil, err
	}

	comment := GameComment{GameID: gameID, UserID: userID, Text: text}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var game models.Game
		if err := tx.Select("id").First(&game, "id = ?", gameID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGameNotFound
			}
			return err
		}

		var author models.User
		if err := tx.Select("username").First(&author, "id = ?", userID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		comment.Username = author.Username

		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Game{}).Where("id = ?", gameID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}
