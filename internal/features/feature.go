// Package features defines how product features plug into the server.
package features

import (
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Feature is implemented by every package under internal/features.
type Feature interface {
	// ID names the feature in logs.
	ID() string

	// Models returns the GORM model pointers the feature owns, for AutoMigrate.
	Models() []interface{}

	// RegisterRoutes mounts routes on a group that is prefixed with /api/p and
	// already has JWT middleware applied.
	RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}

// AdminFeature adds routes that also require the admin middleware.
type AdminFeature interface {
	Feature
	RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}

// PublicFeature adds routes mounted under /api without JWT.
type PublicFeature interface {
	Feature
	RegisterPublicRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}

// UserDataFeature owns rows keyed by user ID. PurgeUser runs inside the
// account deletion transaction and must use only tx.
type UserDataFeature interface {
	Feature
	PurgeUser(tx *gorm.DB, userID uuid.UUID) error
}
