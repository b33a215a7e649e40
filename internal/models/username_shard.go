package models

import (
	"time"

	"gorm.io/datatypes"
)

// UsernameShardCapacity caps the number of names held by one shard row.
const UsernameShardCapacity = 1000

// UsernameShard holds a bounded array of claimed usernames.
type UsernameShard struct {
	ID        uint                        `gorm:"primaryKey" json:"id"`
	Names     datatypes.JSONSlice[string] `gorm:"not null" json:"names"`
	Count     int                         `gorm:"not null;default:0;index" json:"count"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
}
