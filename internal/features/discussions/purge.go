package discussions

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PurgeUser deletes the user's posts and takes them out of each room's count.
func (f *Feature) PurgeUser(tx *gorm.DB, userID uuid.UUID) error {
	var counts []struct {
		DiscussionID uuid.UUID
		N            int
	}
	if err := tx.Model(&Message{}).Select("discussion_id, COUNT(*) AS n").
		Where("user_id = ?", userID).Group("discussion_id").Scan(&counts).Error; err != nil {
		return err
	}
	for _, c := range counts {
		if err := tx.Model(&Discussion{}).Where("id = ?", c.DiscussionID).
			UpdateColumn("message_count", gorm.Expr("message_count - ?", c.N)).Error; err != nil {
			return err
		}
	}
	return tx.Where("user_id = ?", userID).Delete(&Message{}).Error
}
