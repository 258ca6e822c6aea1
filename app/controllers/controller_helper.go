package controllers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// apiTimestamp is the format of every timestamp the API emits.
func apiTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func nowTimestamp() string {
	return apiTimestamp(time.Now())
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return apiTimestamp(*t)
}

// respondInternalError logs the failure with context and returns the
// generic 500 envelope. Nothing internal leaks to the caller.
func respondInternalError(c *fiber.Ctx, what string, err error) error {
	log.Printf("%s: %v", what, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Failed to " + what,
	})
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func respondUnauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Unauthorized",
	})
}
