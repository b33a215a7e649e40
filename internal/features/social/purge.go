package social

import (
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gameCount struct {
	GameID uuid.UUID
	N      int
}

// PurgeUser deletes the user's likes and comments and takes them out of the
// game counters. Follows are removed with the account itself.
func (f *Feature) PurgeUser(tx *gorm.DB, userID uuid.UUID) error {
	if err := uncount(tx, &GameLike{}, "like_count", userID); err != nil {
		return err
	}
	if err := uncount(tx, &GameComment{}, "comment_count", userID); err != nil {
		return err
	}
	if err := tx.Where("user_id = ?", userID).Delete(&GameLike{}).Error; err != nil {
		return err
	}
	return tx.Where("user_id = ?", userID).Delete(&GameComment{}).Error
}

func uncount(tx *gorm.DB, model interface{}, column string, userID uuid.UUID) error {
	var counts []gameCount
	if err := tx.Model(model).Select("game_id, COUNT(*) AS n").
		Where("user_id = ?", userID).Group("game_id").Scan(&counts).Error; err != nil {
		return err
	}
	for _, c := range counts {
		if err := tx.Model(&models.Game{}).Where("id = ?", c.GameID).
			UpdateColumn(column, gorm.Expr(column+" - ?", c.N)).Error; err != nil {
			return err
		}
	}
	return nil
}
