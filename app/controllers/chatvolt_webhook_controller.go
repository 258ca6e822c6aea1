package controllers

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/masteragentes/masteragentes/app/models"
	"github.com/masteragentes/masteragentes/app/repository"
	"github.com/masteragentes/masteragentes/internal/pkg/chatvolt"
	"github.com/masteragentes/masteragentes/internal/pkg/statistics"
)

// ChatVoltWebhookController ingests events ChatVolt pushes to us. Unlike
// the proxy, the webhook resolves the tenant from the organization id
// alone and authenticates with an HMAC signature instead of the API key.
type ChatVoltWebhookController struct {
	repos *repository.Repositories
}

// NewChatVoltWebhookController creates a new webhook controller with repository dependencies
func NewChatVoltWebhookController(repos *repository.Repositories) *ChatVoltWebhookController {
	return &ChatVoltWebhookController{repos: repos}
}

var chatVoltWebhookController *ChatVoltWebhookController

// InitializeChatVoltWebhookController initializes the global webhook controller
func InitializeChatVoltWebhookController(repos *repository.Repositories) {
	chatVoltWebhookController = NewChatVoltWebhookController(repos)
}

// HandleChatVoltWebhookInfo - adapter for the webhook liveness check
func HandleChatVoltWebhookInfo(c *fiber.Ctx) error {
	return chatVoltWebhookController.HandleInfo(c)
}

// HandleChatVoltWebhook - adapter for webhook deliveries
func HandleChatVoltWebhook(c *fiber.Ctx) error {
	return chatVoltWebhookController.HandleEvent(c)
}

// HandleInfo answers the liveness probe ChatVolt sends when a webhook
// endpoint is registered.
func (wc *ChatVoltWebhookController) HandleInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "online",
		"message":   "ChatVolt webhook endpoint is active",
		"timestamp": nowTimestamp(),
	})
}

// HandleEvent processes a webhook delivery: resolve the tenant, verify
// the signature when a secret is configured, then dispatch on event type.
func (wc *ChatVoltWebhookController) HandleEvent(c *fiber.Ctx) error {
	orgID := c.Get("x-org-id")
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "Organization ID is required",
			"message": "Provide the x-org-id request header",
		})
	}

	cfg, err := wc.repos.ChatVoltConfig.ResolveByOrg(orgID)
	if err != nil {
		if isNotFound(err) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":   "Configuration not found or inactive",
				"message": "Check your ChatVolt credentials",
			})
		}
		return respondInternalError(c, "resolve webhook credentials", err)
	}

	// Raw bytes, exactly as sent. Re-serializing a parsed body would
	// break the HMAC.
	body := c.Body()

	// Verification only applies when both sides opted in: a configured
	// secret and a signature header on the request.
	signature := c.Get(chatvolt.SignatureHeader)
	if cfg.WebhookSecret != "" && signature != "" {
		if !chatvolt.VerifySignature(body, signature, cfg.WebhookSecret) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid signature",
			})
		}
	}

	env, err := chatvolt.ParseEnvelope(body)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid event payload",
		})
	}

	switch env.Type {
	case chatvolt.EventMessageReceived:
		return wc.handleMessageReceived(c, cfg.UserID, env.Data)
	case chatvolt.EventConversationStarted:
		return wc.handleConversationStarted(c, cfg.UserID, env.Data)
	case chatvolt.EventConversationEnded:
		return wc.handleConversationEnded(c, cfg.UserID, env.Data)
	case chatvolt.EventContactCreated:
		return wc.handleContactCreated(c, cfg.UserID, env.Data)
	}

	// Unknown events are acknowledged so ChatVolt does not retry them.
	log.Printf("webhook: ignoring event type %q for org %s", env.Type, orgID)
	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "Event type not handled",
		"timestamp": nowTimestamp(),
	})
}

func (wc *ChatVoltWebhookController) handleMessageReceived(c *fiber.Ctx, userID uint, data json.RawMessage) error {
	var in chatvolt.MessageReceivedData
	if err := json.Unmarshal(data, &in); err != nil || in.ConversationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid event payload",
		})
	}

	conv, _, err := wc.findOrCreateConversation(userID, in.ConversationID, in.Contact)
	if err != nil {
		return respondInternalError(c, "record message", err)
	}

	sender := in.SenderType
	if sender == "" {
		sender = models.MessageSenderUser
	}
	conv.AppendMessage(models.Message{
		ID:       in.MessageID,
		Text:     in.MessageText,
		Type:     in.MessageType,
		Sender:   sender,
		Metadata: in.Metadata,
	})
	if err := wc.repos.Conversation.Save(conv); err != nil {
		return respondInternalError(c, "record message", err)
	}

	if err := wc.upsertContact(userID, in.Contact); err != nil {
		return respondInternalError(c, "record message", err)
	}
	statistics.InvalidateDashboardStats(userID)

	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "Message recorded",
		"timestamp": nowTimestamp(),
	})
}

func (wc *ChatVoltWebhookController) handleConversationStarted(c *fiber.Ctx, userID uint, data json.RawMessage) error {
	var in chatvolt.ConversationData
	if err := json.Unmarshal(data, &in); err != nil || in.ConversationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid event payload",
		})
	}

	// Replayed start events find the existing row and change nothing.
	_, created, err := wc.findOrCreateConversation(userID, in.ConversationID, in.Contact)
	if err != nil {
		return respondInternalError(c, "start conversation", err)
	}

	message := "Conversation already registered"
	if created {
		message = "Conversation started"
		if err := wc.upsertContact(userID, in.Contact); err != nil {
			return respondInternalError(c, "start conversation", err)
		}
		statistics.InvalidateDashboardStats(userID)
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"message":   message,
		"timestamp": nowTimestamp(),
	})
}

func (wc *ChatVoltWebhookController) handleConversationEnded(c *fiber.Ctx, userID uint, data json.RawMessage) error {
	var in chatvolt.ConversationData
	if err := json.Unmarshal(data, &in); err != nil || in.ConversationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid event payload",
		})
	}

	affected, err := wc.repos.Conversation.EndByExternalID(userID, in.ConversationID)
	if err != nil {
		return respondInternalError(c, "end conversation", err)
	}
	if affected > 0 {
		statistics.InvalidateDashboardStats(userID)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "Conversation ended",
		"updated":   affected,
		"timestamp": nowTimestamp(),
	})
}

func (wc *ChatVoltWebhookController) handleContactCreated(c *fiber.Ctx, userID uint, data json.RawMessage) error {
	var in chatvolt.EventContact
	if err := json.Unmarshal(data, &in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid event payload",
		})
	}

	if err := wc.upsertContact(userID, &in); err != nil {
		return respondInternalError(c, "record contact", err)
	}
	statistics.InvalidateDashboardStats(userID)

	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "Contact recorded",
		"timestamp": nowTimestamp(),
	})
}

// findOrCreateConversation looks the conversation up by ChatVolt's id,
// creating it with the contact's identity data when it does not exist yet.
func (wc *ChatVoltWebhookController) findOrCreateConversation(userID uint, externalID string, contact *chatvolt.EventContact) (*models.Conversation, bool, error) {
	conv := &models.Conversation{
		UserID:     userID,
		ExternalID: &externalID,
		Origin:     models.ConversationOriginChatVolt,
		Status:     models.ConversationStatusActive,
	}
	if contact != nil {
		conv.ClientName = contact.Name
		conv.Phone = contact.Phone
		conv.Email = contact.Email
	}
	return wc.repos.Conversation.FindOrCreateByExternalID(conv)
}

// upsertContact merges the event's contact block into the contact list.
// Empty blocks are dropped before they reach the store.
func (wc *ChatVoltWebhookController) upsertContact(userID uint, contact *chatvolt.EventContact) error {
	if contact.IsEmpty() {
		return nil
	}
	_, err := wc.repos.Contact.UpsertByIdentity(userID, repository.ContactInput{
		Name:  contact.Name,
		Email: contact.Email,
		Phone: contact.Phone,
		Tags:  contact.Tags,
	})
	return err
}
