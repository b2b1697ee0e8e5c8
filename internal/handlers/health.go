package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agrihaul/agrihaul-backend/internal/services"
	"github.com/agrihaul/agrihaul-backend/internal/storage"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	Version     string
	store       storage.Store
	sessions    *services.SessionManager
	storageType string
	whatsappOK  bool
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, store storage.Store, sessions *services.SessionManager, storageType string, whatsappOK bool) *HealthHandler {
	return &HealthHandler{
		Version:     version,
		store:       store,
		sessions:    sessions,
		storageType: storageType,
		whatsappOK:  whatsappOK,
	}
}

// Check returns the health status of the service. Health checks double as
// the lazy session-expiry sweep.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	h.sessions.CleanupExpired()

	status := "healthy"
	statusCode := fiber.StatusOK

	links, err := h.store.CountCarrierLinks()
	if err != nil {
		status = "unhealthy"
		statusCode = fiber.StatusServiceUnavailable
	}

	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"service": "AgriHaul WhatsApp Backend",
		"version": h.Version,
		"storage": h.storageType,
		"services": fiber.Map{
			"sessions":      h.sessions.ActiveCount(),
			"carrier_links": links,
			"whatsapp":      h.whatsappOK,
		},
	})
}
