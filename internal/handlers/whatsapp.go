package handlers

import (
	"encoding/xml"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/agrihaul/agrihaul-backend/internal/services"
)

// WhatsAppHandler handles WhatsApp webhook requests
type WhatsAppHandler struct {
	engine   *services.ConversationEngine
	sessions *services.SessionManager
	twilio   *services.TwilioService // nil when Twilio is not configured
	apiKey   string
	validate *validator.Validate
}

// NewWhatsAppHandler creates a new WhatsApp handler. apiKey guards the
// server-to-server notify variant of the webhook.
func NewWhatsAppHandler(engine *services.ConversationEngine, sessions *services.SessionManager, twilio *services.TwilioService, apiKey string) *WhatsAppHandler {
	return &WhatsAppHandler{
		engine:   engine,
		sessions: sessions,
		twilio:   twilio,
		apiKey:   apiKey,
		validate: validator.New(),
	}
}

// TwilioWebhookPayload represents an incoming WhatsApp message from Twilio
type TwilioWebhookPayload struct {
	MessageSid          string `form:"MessageSid"`
	AccountSid          string `form:"AccountSid"`
	MessagingServiceSid string `form:"MessagingServiceSid"`
	From                string `form:"From"` // "whatsapp:+14155550123"
	To                  string `form:"To"`
	Body                string `form:"Body"`
	NumMedia            string `form:"NumMedia"`
}

// NotifyRequest is the JSON body of the server-to-server notify variant
type NotifyRequest struct {
	To      string `json:"to" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// twimlResponse renders a Twilio messaging reply
type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// HandleWebhook serves POST /webhook/whatsapp. Two payloads share the route:
// Twilio's form-encoded inbound message, and an internal JSON notify guarded
// by the shared API key.
func (h *WhatsAppHandler) HandleWebhook(c *fiber.Ctx) error {
	contentType := c.Get(fiber.HeaderContentType)

	if strings.Contains(contentType, "application/json") {
		return h.handleNotify(c)
	}

	if !strings.Contains(contentType, "application/x-www-form-urlencoded") {
		return c.Status(fiber.StatusUnsupportedMediaType).SendString("Unsupported media type")
	}

	var payload TwilioWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		log.Printf("Error parsing webhook: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}

	if !strings.HasPrefix(payload.From, "whatsapp:") {
		// Only handle WhatsApp channels here
		return c.Status(fiber.StatusOK).SendString("Ignored non-WhatsApp source")
	}

	log.Printf("📱 WhatsApp message from %s: %s", payload.From, payload.Body)

	reply := h.safeHandle(payload.From, payload.Body)
	return sendTwiML(c, reply)
}

// handleNotify pushes an outbound message without going through the engine
func (h *WhatsAppHandler) handleNotify(c *fiber.Ctx) error {
	key := c.Get("x-api-key")
	if h.apiKey == "" || key != h.apiKey {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req NotifyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid JSON body",
		})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing 'to' or 'message'.",
		})
	}

	if h.twilio == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "WhatsApp sending not configured",
		})
	}

	if err := h.twilio.SendWhatsAppMessage(req.To, req.Message); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to send message",
		})
	}

	return c.JSON(fiber.Map{"success": true})
}

// HandleWebhookHealth serves GET /webhook/whatsapp: liveness text plus an
// opportunistic expired-session purge.
func (h *WhatsAppHandler) HandleWebhookHealth(c *fiber.Ctx) error {
	h.sessions.CleanupExpired()
	return c.Status(fiber.StatusOK).SendString("AgriHaul WhatsApp webhook OK")
}

// TestWebhookPayload is the development test harness input
type TestWebhookPayload struct {
	From    string `json:"from"`
	Message string `json:"message"`
}

// HandleTestWebhook processes test messages without Twilio (for development)
func (h *WhatsAppHandler) HandleTestWebhook(c *fiber.Ctx) error {
	var payload TestWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test payload",
		})
	}

	log.Printf("🧪 Test webhook from %s: %s", payload.From, payload.Message)
	reply := h.safeHandle(payload.From, payload.Message)

	return c.JSON(fiber.Map{
		"success":  true,
		"response": reply,
	})
}

// safeHandle runs the engine and converts any panic into the fallback reply,
// so the channel always receives a well-formed message.
func (h *WhatsAppHandler) safeHandle(from, body string) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ [internal] webhook handler panic: %v", r)
			reply = services.UnexpectedErrorReply()
		}
	}()
	return h.engine.HandleIncomingMessage(from, body)
}

func sendTwiML(c *fiber.Ctx, message string) error {
	body, err := xml.Marshal(twimlResponse{Message: message})
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/xml")
	return c.Status(fiber.StatusOK).SendString(xml.Header + string(body))
}
