package builder

import (
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PurgeUser deletes the custom games the user authored.
func (f *Feature) PurgeUser(tx *gorm.DB, userID uuid.UUID) error {
	return tx.Unscoped().Where("type = ? AND author_id = ?", models.GameTypeCustom, userID).Delete(&models.Game{}).Error
}
