package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/testutil"
	"github.com/gofiber/fiber/v2"
)

func TestAdminRequiredToken(t *testing.T) {
	db := testutil.NewDB(t, &models.User{})
	app := fiber.New()
	app.Get("/admin", AdminRequired(db, &config.Config{AdminToken: "s3cret"}), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"matching token", "s3cret", fiber.StatusNoContent},
		{"wrong token", "s3creT", fiber.StatusUnauthorized},
		{"prefix of token", "s3c", fiber.StatusUnauthorized},
		{"no token", "", fiber.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin", nil)
			if tt.token != "" {
				req.Header.Set("X-Admin-Token", tt.token)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}
