package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/masteragentes/masteragentes/internal/pkg/usercontext"
)

// RequireAuth ensures a logged-in session; the management API is JSON only,
// so the failure is a 401 body rather than a redirect.
func RequireAuth(c *fiber.Ctx) error {
	v := c.Locals(usercontext.KeyFromProtected)
	loggedIn := false
	if b, ok := v.(bool); ok {
		loggedIn = b
	}
	if !loggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "Login required",
		})
	}
	return c.Next()
}
