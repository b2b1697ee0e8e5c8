package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrihaul/agrihaul-backend/internal/services"
	"github.com/agrihaul/agrihaul-backend/internal/storage"
)

// noopBackend satisfies services.BackendAPI for webhook-level tests; the
// greeting path never reaches the API.
type noopBackend struct{}

func (noopBackend) CreateJob(*services.CreateJobRequest) (string, error) { return "job-1", nil }
func (noopBackend) ListOpenJobs(int) ([]services.Job, error)            { return nil, nil }
func (noopBackend) AcceptJob(string, string) error                      { return nil }
func (noopBackend) GetJob(string) (*services.Job, error)                { return &services.Job{}, nil }
func (noopBackend) SubmitRating(*services.RatingRequest) error          { return nil }

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	sessions := services.NewSessionManager(storage.NewMemoryStore())
	engine := services.NewConversationEngine(sessions, noopBackend{})
	h := NewWhatsAppHandler(engine, sessions, nil, "secret-key")

	app := fiber.New()
	app.Get("/webhook/whatsapp", h.HandleWebhookHealth)
	app.Post("/webhook/whatsapp", h.HandleWebhook)
	app.Post("/test/whatsapp", h.HandleTestWebhook)
	return app
}

func postForm(t *testing.T, app *fiber.App, form url.Values) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestInboundMessageRepliesWithTwiML(t *testing.T) {
	app := newTestApp(t)

	resp := postForm(t, app, url.Values{
		"From": {"whatsapp:+14155550123"},
		"Body": {"hello"},
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/xml")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "<Response><Message>")
	assert.Contains(t, string(body), "AGRIHAUL FREIGHT PLATFORM")
}

func TestNonWhatsAppSourceIgnored(t *testing.T) {
	app := newTestApp(t)

	resp := postForm(t, app, url.Values{
		"From": {"sms:+14155550123"},
		"Body": {"hello"},
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "Ignored non-WhatsApp source", string(body))
}

func TestUnsupportedContentType(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader("hi"))
	req.Header.Set("Content-Type", "text/plain")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestNotifyRequiresAPIKey(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp",
		strings.NewReader(`{"to":"+14155550123","message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/webhook/whatsapp",
		strings.NewReader(`{"to":"+14155550123","message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", "wrong-key")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestNotifyValidatesBody(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp",
		strings.NewReader(`{"to":"+14155550123"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", "secret-key")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestNotifyWithoutTwilioConfigured(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp",
		strings.NewReader(`{"to":"+14155550123","message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", "secret-key")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestWebhookHealthEndpoint(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/webhook/whatsapp", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "AgriHaul WhatsApp webhook OK", string(body))
}

func TestDevTestWebhook(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/test/whatsapp",
		strings.NewReader(`{"from":"+14155550123","message":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Success  bool   `json:"success"`
		Response string `json:"response"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.True(t, result.Success)
	assert.Contains(t, result.Response, "AGRIHAUL FREIGHT PLATFORM")
}
