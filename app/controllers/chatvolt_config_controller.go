package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/masteragentes/masteragentes/app/models"
	"github.com/masteragentes/masteragentes/app/repository"
	"github.com/masteragentes/masteragentes/internal/pkg/usercontext"
)

// ChatVoltConfigController manages the logged-in user's ChatVolt
// credentials. The raw API key and webhook secret are write-only; reads
// always get the masked form.
type ChatVoltConfigController struct {
	repos *repository.Repositories
}

// NewChatVoltConfigController creates a new config controller with repository dependencies
func NewChatVoltConfigController(repos *repository.Repositories) *ChatVoltConfigController {
	return &ChatVoltConfigController{repos: repos}
}

var chatVoltConfigController *ChatVoltConfigController

// InitializeChatVoltConfigController initializes the global config controller
func InitializeChatVoltConfigController(repos *repository.Repositories) {
	chatVoltConfigController = NewChatVoltConfigController(repos)
}

// HandleGetChatVoltConfig - adapter for reading the credential state
func HandleGetChatVoltConfig(c *fiber.Ctx) error {
	return chatVoltConfigController.HandleGet(c)
}

// HandleSaveChatVoltConfig - adapter for creating or replacing credentials
func HandleSaveChatVoltConfig(c *fiber.Ctx) error {
	return chatVoltConfigController.HandleSave(c)
}

// HandleToggleChatVoltConfig - adapter for activating or deactivating the bridge
func HandleToggleChatVoltConfig(c *fiber.Ctx) error {
	return chatVoltConfigController.HandleToggle(c)
}

// HandleDeleteChatVoltConfig - adapter for removing credentials
func HandleDeleteChatVoltConfig(c *fiber.Ctx) error {
	return chatVoltConfigController.HandleDelete(c)
}

// HandleGet returns the masked credential view for the current user.
func (cc *ChatVoltConfigController) HandleGet(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return respondUnauthorized(c)
	}

	cfg, err := cc.repos.ChatVoltConfig.GetByUser(userID)
	if err != nil {
		if isNotFound(err) {
			return c.JSON(fiber.Map{
				"configured": false,
			})
		}
		return respondInternalError(c, "load configuration", err)
	}

	return c.JSON(fiber.Map{
		"configured":         true,
		"api_key_masked":     cfg.MaskedAPIKey(),
		"org_id":             cfg.OrgID,
		"has_webhook_secret": cfg.HasWebhookSecret(),
		"active":             cfg.Active,
		"created_at":         apiTimestamp(cfg.CreatedAt),
		"updated_at":         apiTimestamp(cfg.UpdatedAt),
	})
}

type chatVoltConfigRequest struct {
	APIKey        string `json:"api_key"`
	OrgID         string `json:"org_id"`
	WebhookSecret string `json:"webhook_secret"`
}

// HandleSave creates or replaces the user's credentials and returns the
// endpoints to paste into the ChatVolt dashboard.
func (cc *ChatVoltConfigController) HandleSave(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return respondUnauthorized(c)
	}

	var req chatVoltConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	candidate := models.ChatVoltConfig{
		UserID:        userID,
		APIKey:        req.APIKey,
		OrgID:         req.OrgID,
		WebhookSecret: req.WebhookSecret,
	}
	if err := candidate.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid configuration",
			"message": "api_key must have at least 10 characters and org_id at least 5",
		})
	}

	cfg, err := cc.repos.ChatVoltConfig.Upsert(userID, req.APIKey, req.OrgID, req.WebhookSecret)
	if err != nil {
		return respondInternalError(c, "save configuration", err)
	}

	base := c.BaseURL()
	return c.JSON(fiber.Map{
		"success":        true,
		"api_key_masked": cfg.MaskedAPIKey(),
		"org_id":         cfg.OrgID,
		"active":         cfg.Active,
		"integration": fiber.Map{
			"proxy_url":   base + "/api/chatvolt",
			"webhook_url": base + "/api/chatvolt/webhook",
		},
	})
}

type chatVoltToggleRequest struct {
	Active *bool `json:"active"`
}

// HandleToggle switches the bridge on or off without touching credentials.
func (cc *ChatVoltConfigController) HandleToggle(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return respondUnauthorized(c)
	}

	var req chatVoltToggleRequest
	if err := c.BodyParser(&req); err != nil || req.Active == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Field 'active' is required",
		})
	}

	affected, err := cc.repos.ChatVoltConfig.SetActive(userID, *req.Active)
	if err != nil {
		return respondInternalError(c, "update configuration", err)
	}
	if affected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Configuration not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"active":  *req.Active,
	})
}

// HandleDelete removes the user's credentials, cutting ChatVolt off.
func (cc *ChatVoltConfigController) HandleDelete(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return respondUnauthorized(c)
	}

	affected, err := cc.repos.ChatVoltConfig.DeleteByUser(userID)
	if err != nil {
		return respondInternalError(c, "delete configuration", err)
	}
	if affected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Configuration not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Configuration deleted",
	})
}
