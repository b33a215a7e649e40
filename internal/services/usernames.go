package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUsernameTaken   = errors.New("username already taken")
	ErrUsernameInvalid = errors.New("username must be 3-20 characters of letters, digits, '_' or '.'")
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_.]{3,20}$`)

// NormalizeUsername lower-cases and trims a username and validates its shape.
func NormalizeUsername(name string) (string, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if !usernamePattern.MatchString(n) {
		return "", ErrUsernameInvalid
	}
	return n, nil
}

// UsernameTaken reports whether any shard already holds name.
func UsernameTaken(db *gorm.DB, name string) (bool, error) {
	var shards []models.UsernameShard
	if err := db.Select("id", "names").Find(&shards).Error; err != nil {
		return false, fmt.Errorf("failed to load username shards: %w", err)
	}
	for _, shard := range shards {
		for _, existing := range shard.Names {
			if existing == name {
				return true, nil
			}
		}
	}
	return false, nil
}

// ClaimUsername appends name to the first shard with room, opening a new shard
// once every shard holds UsernameShardCapacity names. Call it inside a transaction.
func ClaimUsername(tx *gorm.DB, name string) error {
	taken, err := UsernameTaken(tx, name)
	if err != nil {
		return err
	}
	if taken {
		return ErrUsernameTaken
	}

	var shard models.UsernameShard
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("count < ?", models.UsernameShardCapacity).
		Order("id ASC").
		First(&shard).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		shard = models.UsernameShard{
			Names: datatypes.JSONSlice[string]{name},
			Count: 1,
		}
		return tx.Create(&shard).Error
	}
	if err != nil {
		return fmt.Errorf("failed to load username shard: %w", err)
	}

	shard.Names = append(shard.Names, name)
	shard.Count = len(shard.Names)
	return tx.Model(&shard).Updates(map[string]interface{}{
		"names": shard.Names,
		"count": shard.Count,
	}).Error
}

// ReleaseUsername removes name from whichever shard holds it.
func ReleaseUsername(tx *gorm.DB, name string) error {
	var shards []models.UsernameShard
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Find(&shards).Error; err != nil {
		return fmt.Errorf("failed to load username shards: %w", err)
	}
	for _, shard := range shards {
		kept := make(datatypes.JSONSlice[string], 0, len(shard.Names))
		for _, existing := range shard.Names {
			if existing != name {
				kept = append(kept, existing)
			}
		}
		if len(kept) == len(shard.Names) {
			continue
		}
		return tx.Model(&shard).Updates(map[string]interface{}{
			"names": kept,
			"count": len(kept),
		}).Error
	}
	return nil
}
