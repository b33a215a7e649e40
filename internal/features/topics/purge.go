package topics

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PurgeUser withdraws the user's votes from each question's split.
func (f *Feature) PurgeUser(tx *gorm.DB, userID uuid.UUID) error {
	for stance, column := range map[string]string{StanceAgree: "agree_count", StanceDisagree: "disagree_count"} {
		voted := tx.Model(&Vote{}).Select("question_id").Where("user_id = ? AND stance = ?", userID, stance)
		if err := tx.Model(&DailyQuestion{}).Where("id IN (?)", voted).
			UpdateColumn(column, gorm.Expr(column+" - 1")).Error; err != nil {
			return err
		}
	}
	return tx.Where("user_id = ?", userID).Delete(&Vote{}).Error
}
