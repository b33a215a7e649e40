package identity

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestGetUserID(t *testing.T) {
	id := uuid.New()
	cases := []struct {
		name    string
		token   *jwt.Token
		wantErr bool
	}{
		{name: "valid", token: jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": id.String(), "username": "ada"})},
		{name: "missing sub", token: jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{}), wantErr: true},
		{name: "bad uuid", token: jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "nope"}), wantErr: true},
		{name: "no token", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				if tc.token != nil {
					c.Locals("user", tc.token)
				}
				got, err := GetUserID(c)
				if tc.wantErr {
					if err == nil {
						t.Errorf("expected error, got %s", got)
					}
					return c.SendString("")
				}
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				if got != id {
					t.Errorf("expected %s, got %s", id, got)
				}
				if GetUsername(c) != "ada" {
					t.Errorf("expected username ada, got %q", GetUsername(c))
				}
				return c.SendString("")
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			io.Copy(io.Discard, resp.Body)
		})
	}
}
