package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/masteragentes/masteragentes/internal/pkg/chatvolt"
)

// HandleChatVoltIntegrationDocs returns the machine-readable integration
// guide the frontend renders on the integrations page.
func HandleChatVoltIntegrationDocs(c *fiber.Ctx) error {
	base := c.BaseURL()

	return c.JSON(fiber.Map{
		"title":       "ChatVolt Integration",
		"description": "Connect a ChatVolt organization to this account with an API key, an organization id and an optional webhook secret.",
		"authentication": fiber.Map{
			"headers": []fiber.Map{
				{"name": "x-api-key", "description": "The ChatVolt API key saved in the integration settings"},
				{"name": "x-org-id", "description": "The ChatVolt organization id"},
			},
			"webhook_signature": fiber.Map{
				"header":      chatvolt.SignatureHeader,
				"scheme":      "sha256=<hex HMAC-SHA256 of the raw request body>",
				"enforced_if": "a webhook secret is configured and the header is present",
			},
		},
		"endpoints": []fiber.Map{
			{
				"method":      "GET",
				"url":         base + "/api/chatvolt?route=<route>",
				"description": "Read tenant data through the proxy",
				"routes":      chatvolt.RouteNames(),
			},
			{
				"method":      "POST",
				"url":         base + "/api/chatvolt",
				"description": "Create or update tenant data through the proxy",
				"types": []string{
					string(chatvolt.CommandNewConversation),
					string(chatvolt.CommandUpdateConversation),
					string(chatvolt.CommandNewContact),
				},
			},
			{
				"method":      "POST",
				"url":         base + "/api/chatvolt/webhook",
				"description": "Receive ChatVolt events",
				"events": []string{
					string(chatvolt.EventMessageReceived),
					string(chatvolt.EventConversationStarted),
					string(chatvolt.EventConversationEnded),
					string(chatvolt.EventContactCreated),
				},
			},
		},
		"examples": fiber.Map{
			"proxy_read": fiber.Map{
				"curl": "curl -H 'x-api-key: <key>' -H 'x-org-id: <org>' '" + base + "/api/chatvolt?route=status'",
			},
			"webhook_event": fiber.Map{
				"type": string(chatvolt.EventMessageReceived),
				"data": fiber.Map{
					"conversation_id": "cv-123",
					"message_text":    "Hello",
					"sender_type":     "user",
					"contact":         fiber.Map{"name": "Jane", "phone": "+5511999990000"},
				},
			},
		},
	})
}
