package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/agrihaul/agrihaul-backend/internal/handlers"
	"github.com/agrihaul/agrihaul-backend/internal/middleware"
	"github.com/agrihaul/agrihaul-backend/internal/services"
	"github.com/agrihaul/agrihaul-backend/internal/storage"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, store storage.Store, sessions *services.SessionManager, engine *services.ConversationEngine, twilioService *services.TwilioService, storageType string) {
	whatsappHandler := handlers.NewWhatsAppHandler(engine, sessions, twilioService, os.Getenv("AGRIHAUL_API_KEY"))
	healthHandler := handlers.NewHealthHandler("1.0.0", store, sessions, storageType, twilioService != nil)

	// Root endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to AgriHaul WhatsApp Backend!",
			"version": "1.0.0",
			"endpoints": fiber.Map{
				"health":        "/health",
				"webhook":       "/webhook/whatsapp",
				"test_whatsapp": "/test/whatsapp",
			},
		})
	})

	app.Get("/health", healthHandler.Check)

	// ========== WEBHOOK ROUTES ==========
	webhooks := app.Group("/webhook")

	webhooks.Get("/whatsapp", whatsappHandler.HandleWebhookHealth)

	// WhatsApp webhook - environment-aware signature validation
	if os.Getenv("ENVIRONMENT") == "development" || os.Getenv("DISABLE_WEBHOOK_VALIDATION") == "true" {
		webhooks.Post("/whatsapp", whatsappHandler.HandleWebhook)
		log.Println("⚠️  WhatsApp webhook validation DISABLED for development")
	} else {
		webhooks.Post("/whatsapp", middleware.ValidateTwilioSignature(), whatsappHandler.HandleWebhook)
	}

	// ========== TEST ROUTES (Development Only) ==========
	app.Post("/test/whatsapp", whatsappHandler.HandleTestWebhook)
}
