package handlers

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var configTypes = map[string]bool{"string": true, "bool": true, "int": true, "json": true}

type RemoteConfigHandler struct {
	db *gorm.DB
}

func NewRemoteConfigHandler(db *gorm.DB) *RemoteConfigHandler {
	return &RemoteConfigHandler{db: db}
}

// GetConfig returns every client flag decoded to its declared type.
func (h *RemoteConfigHandler) GetConfig(c *fiber.Ctx) error {
	values, err := h.Values()
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to fetch configuration")
	}
	return c.JSON(values)
}

// Values loads all keys. Values that fail to decode fall back to the raw string.
func (h *RemoteConfigHandler) Values() (map[string]interface{}, error) {
	var rows []models.RemoteConfig
	if err := h.db.Order("key").Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make(map[string]interface{}, len(rows))
	for _, row := range rows {
		result[row.Key] = decodeConfigValue(row)
	}
	return result, nil
}

func decodeConfigValue(row models.RemoteConfig) interface{} {
	switch row.Type {
	case "bool":
		if v, err := strconv.ParseBool(row.Value); err == nil {
			return v
		}
	case "int":
		if v, err := strconv.Atoi(row.Value); err == nil {
			return v
		}
	case "json":
		var v interface{}
		if err := json.Unmarshal([]byte(row.Value), &v); err == nil {
			return v
		}
	}
	return row.Value
}

// SetConfigKey upserts a key (admin only).
func (h *RemoteConfigHandler) SetConfigKey(c *fiber.Ctx) error {
	key := c.Params("key")
	if key == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Key parameter is required")
	}

	var payload struct {
		Value string `json:"value"`
		Type  string `json:"type"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if payload.Value == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Value is required")
	}
	if payload.Type == "" {
		payload.Type = "string"
	}
	if !configTypes[payload.Type] {
		return errorJSON(c, fiber.StatusBadRequest, "Type must be string, bool, int, or json")
	}

	var row models.RemoteConfig
	err := h.db.Where("key = ?", key).First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = models.RemoteConfig{Key: key, Value: payload.Value, Type: payload.Type}
		err = h.db.Create(&row).Error
	case err == nil:
		row.Value = payload.Value
		row.Type = payload.Type
		err = h.db.Save(&row).Error
	}
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to save config")
	}

	return c.JSON(fiber.Map{
		"error":   false,
		"message": "Config updated successfully",
		"config": fiber.Map{
			"key":   row.Key,
			"value": row.Value,
			"type":  row.Type,
		},
	})
}

// DeleteConfigKey removes a key (admin only).
func (h *RemoteConfigHandler) DeleteConfigKey(c *fiber.Ctx) error {
	key := c.Params("key")
	if key == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Key parameter is required")
	}

	result := h.db.Where("key = ?", key).Delete(&models.RemoteConfig{})
	if result.Error != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to delete config")
	}
	if result.RowsAffected == 0 {
		return errorJSON(c, fiber.StatusNotFound, "Config not found")
	}

	return c.JSON(fiber.Map{"error": false, "message": "Config deleted successfully"})
}

// SeedDefaults inserts the default client flags without touching keys that already exist.
func (h *RemoteConfigHandler) SeedDefaults(cfg *config.Config) error {
	defaults := []models.RemoteConfig{
		{Key: "assistant_daily_limit", Value: strconv.Itoa(cfg.AIDailyLimit), Type: "int"},
		{Key: "assistant_greeting", Value: "Hi! Ask me anything about today's topic.", Type: "string"},
		{Key: "maintenance_mode", Value: "false", Type: "bool"},
	}

	for _, d := range defaults {
		row := d
		if err := h.db.Where("key = ?", row.Key).FirstOrCreate(&row).Error; err != nil {
			return err
		}
	}
	return nil
}
