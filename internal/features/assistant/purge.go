package assistant

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PurgeUser deletes the user's assistant history. The quota and legacy
// history columns live on the user row and go with it.
func (f *Feature) PurgeUser(tx *gorm.DB, userID uuid.UUID) error {
	return tx.Where("user_id = ?", userID).Delete(&Record{}).Error
}
