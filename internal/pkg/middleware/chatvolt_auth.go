package middleware

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/masteragentes/masteragentes/app/repository"
	"github.com/masteragentes/masteragentes/internal/pkg/usercontext"
)

// ChatVoltAuthMiddleware authenticates proxy requests carrying the ChatVolt
// credential headers and resolves them to a tenant. Missing headers are
// reported distinctly from invalid credentials; an inactive credential is
// indistinguishable from an unknown one.
func ChatVoltAuthMiddleware(configs repository.ChatVoltConfigRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		apiKey := strings.TrimSpace(c.Get("x-api-key"))
		orgID := strings.TrimSpace(c.Get("x-org-id"))
		if apiKey == "" || orgID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "API key and organization ID are required",
				"message": "Provide the x-api-key and x-org-id request headers",
			})
		}

		cfg, err := configs.Resolve(apiKey, orgID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"error":   "Configuration not found or inactive",
					"message": "Check your ChatVolt credentials",
				})
			}
			log.Printf("chatvolt credential lookup failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Internal server error",
				"message": "Please try again later",
			})
		}

		c.Locals(usercontext.KeyTenantID, cfg.UserID)

		return c.Next()
	}
}
