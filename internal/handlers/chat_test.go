package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpryor812/shopify-aloha/internal/models"
	"github.com/jpryor812/shopify-aloha/internal/services"
)

func newChatTestApp(t *testing.T, gen services.TextGenerator) (*fiber.App, *testEnv) {
	t.Helper()
	env := newTestContainer(t, gen)

	app := fiber.New()
	h := NewChatHandler(env.container)
	app.Post("/api/chat", h.HandleChat)
	app.Post("/api/chat/start", h.HandleStartSession)
	app.Get("/api/chat/messages", h.HandleGetMessages)
	app.Delete("/api/chat/session", h.HandleClearSession)

	return app, env
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestHandleChatValidation(t *testing.T) {
	app, _ := newChatTestApp(t, &scriptedGenerator{})

	resp := postJSON(t, app, "/api/chat", models.ChatRequest{Message: "hi"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, app, "/api/chat", models.ChatRequest{SessionID: "sess"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")
	raw, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, raw.StatusCode)
}

func TestHandleChatFullTurn(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		`{"query":"tee"}`,
		"Take a look at the Aloha Tee!",
	}}
	app, _ := newChatTestApp(t, gen)

	resp := postJSON(t, app, "/api/chat", models.ChatRequest{SessionID: "sess", Message: "show me a tee"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody[models.ChatResponse](t, resp)
	assert.True(t, body.Success)
	assert.Equal(t, "Take a look at the Aloha Tee!", body.Response)
	assert.NotEmpty(t, body.Conversation)
	require.Len(t, body.RelevantProducts, 1)
	assert.Equal(t, "111", body.RelevantProducts[0].ID)
}

func TestHandleStartSession(t *testing.T) {
	app, _ := newChatTestApp(t, &scriptedGenerator{})

	resp := postJSON(t, app, "/api/chat/start", models.StartSessionRequest{SessionID: "sess"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody[struct {
		Success      bool             `json:"success"`
		Conversation []models.Message `json:"conversation"`
	}](t, resp)
	assert.True(t, body.Success)
	require.Len(t, body.Conversation, 1)
	assert.Equal(t, services.WelcomeMessage, body.Conversation[0].Text)

	resp = postJSON(t, app, "/api/chat/start", models.StartSessionRequest{})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleGetMessages(t *testing.T) {
	app, env := newChatTestApp(t, &scriptedGenerator{})
	env.container.SessionService.Append("sess", models.NewUserMessage("hello"))

	req := httptest.NewRequest(http.MethodGet, "/api/chat/messages?session_id=sess", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody[struct {
		Conversation []models.Message `json:"conversation"`
	}](t, resp)
	require.Len(t, body.Conversation, 1)
	assert.Equal(t, "hello", body.Conversation[0].Text)

	req = httptest.NewRequest(http.MethodGet, "/api/chat/messages", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleClearSession(t *testing.T) {
	app, env := newChatTestApp(t, &scriptedGenerator{})
	env.container.SessionService.Append("sess", models.NewUserMessage("hello"))

	body, _ := json.Marshal(models.ClearSessionRequest{SessionID: "sess"})
	req := httptest.NewRequest(http.MethodDelete, "/api/chat/session", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	out := decodeBody[models.ClearSessionResponse](t, resp)
	assert.True(t, out.Success)
	assert.Empty(t, env.container.SessionService.Get("sess"))
}
