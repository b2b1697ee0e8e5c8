package middleware

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	twclient "github.com/twilio/twilio-go/client"
)

// ValidateTwilioSignature validates that the webhook request is from Twilio.
// Applies only to the form-encoded inbound message variant; the JSON notify
// variant authenticates with the shared API key instead.
func ValidateTwilioSignature() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if strings.Contains(c.Get(fiber.HeaderContentType), "application/json") {
			return c.Next()
		}

		signature := c.Get("X-Twilio-Signature")
		if signature == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing Twilio signature",
			})
		}

		authToken := os.Getenv("TWILIO_AUTH_TOKEN")
		if authToken == "" {
			log.Println("ERROR: TWILIO_AUTH_TOKEN not set")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Server configuration error",
			})
		}

		params := make(map[string]string)
		c.Request().PostArgs().VisitAll(func(key, value []byte) {
			params[string(key)] = string(value)
		})

		validator := twclient.NewRequestValidator(authToken)
		if !validator.Validate(requestURL(c), params, signature) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid signature",
			})
		}

		return c.Next()
	}
}

// requestURL reconstructs the URL Twilio signed. Behind a proxy the scheme
// and host seen here can differ from the public ones, so PUBLIC_BASE_URL
// takes precedence when set.
func requestURL(c *fiber.Ctx) string {
	if base := os.Getenv("PUBLIC_BASE_URL"); base != "" {
		return strings.TrimSuffix(base, "/") + c.Path()
	}

	protocol := "https"
	if c.Protocol() == "http" {
		protocol = "http"
	}
	return fmt.Sprintf("%s://%s%s", protocol, c.Hostname(), c.Path())
}
