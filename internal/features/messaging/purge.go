package messaging

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PurgeUser deletes every conversation the user is part of, both sides included.
func (f *Feature) PurgeUser(tx *gorm.DB, userID uuid.UUID) error {
	mine := tx.Model(&Conversation{}).Select("id").Where("user_a = ? OR user_b = ?", userID, userID)
	if err := tx.Where("conversation_id IN (?)", mine).Delete(&DirectMessage{}).Error; err != nil {
		return err
	}
	return tx.Where("user_a = ? OR user_b = ?", userID, userID).Delete(&Conversation{}).Error
}
