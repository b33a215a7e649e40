package puzzles

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PurgeUser takes the user off every leaderboard. Play lists and stats live on
// the user row. A Redis failure is logged and does not block the deletion.
func (f *Feature) PurgeUser(tx *gorm.DB, userID uuid.UUID) error {
	boards := make([]string, 0, len(models.GameTypes))
	for t := range models.GameTypes {
		boards = append(boards, t)
	}
	if err := f.cache.RemoveMember(tx.Statement.Context, userID.String(), boards...); err != nil {
		slog.Warn("failed to remove user from leaderboards", "feature", "puzzles", "user_id", userID, "error", err)
	}
	return nil
}
