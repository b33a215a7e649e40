package assistant

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func testApp(svc *Service, userID uuid.UUID) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"sub": userID.String()}})
		return c.Next()
	})
	h := NewAssistantHandler(svc)
	app.Get("/assistant/quota", h.Quota)
	app.Get("/assistant/history", h.History)
	app.Post("/assistant/messages", h.Send)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	var out map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestSendHandlerStatuses(t *testing.T) {
	db := newTestDB(t)
	limited := createUser(t, db, func(u *models.User) {
		u.AIMsgCount = 6
		u.AIMsgDay = "2024-05-01"
	})
	fresh := createUser(t, db, nil)
	svc := newTestService(db, &stubCompleter{reply: "Paris[1]"})

	resp, body := postJSON(t, testApp(svc, limited), "/assistant/messages", SendRequest{Text: "hi"})
	if resp.StatusCode != fiber.StatusTooManyRequests || body["error"] != true {
		t.Fatalf("limited: status %d body %v", resp.StatusCode, body)
	}

	resp, _ = postJSON(t, testApp(svc, fresh), "/assistant/messages", SendRequest{Text: ""})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("empty: status %d", resp.StatusCode)
	}

	resp, body = postJSON(t, testApp(svc, fresh), "/assistant/messages", SendRequest{Text: "capital of France?"})
	if resp.StatusCode != fiber.StatusOK || body["reply"] != "Paris" || body["failed"] != false {
		t.Fatalf("ok: status %d body %v", resp.StatusCode, body)
	}
}

func TestQuotaAndHistoryHandlersNeverFail(t *testing.T) {
	svc := newTestService(newTestDB(t), &stubCompleter{})
	app := testApp(svc, uuid.New())

	for _, path := range []string{"/assistant/quota", "/assistant/history"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("%s status = %d, want 200 with defaults", path, resp.StatusCode)
		}
	}
}

func TestPerplexityChatFunction(t *testing.T) {
	app := fiber.New()
	app.Post("/fn", NewFunctionHandler(&stubCompleter{reply: "hello"}).PerplexityChat)
	resp, body := postJSON(t, app, "/fn", FunctionRequest{Input: []Turn{{Role: RoleUser, Content: "hi"}}})
	if resp.StatusCode != fiber.StatusOK || body["reply"] != "hello" {
		t.Fatalf("status %d body %v", resp.StatusCode, body)
	}

	resp, body = postJSON(t, app, "/fn", FunctionRequest{Input: []Turn{{Role: "robot", Content: "hi"}}})
	if resp.StatusCode != fiber.StatusBadRequest || body["error"] == nil {
		t.Fatalf("bad role: status %d body %v", resp.StatusCode, body)
	}

	failing := fiber.New()
	failing.Post("/fn", NewFunctionHandler(&stubCompleter{err: http.ErrHandlerTimeout}).PerplexityChat)
	resp, body = postJSON(t, failing, "/fn", FunctionRequest{Input: []Turn{{Role: RoleUser, Content: "hi"}}})
	if resp.StatusCode != fiber.StatusBadGateway || body["error"] == nil {
		t.Fatalf("upstream failure: status %d body %v", resp.StatusCode, body)
	}
}
