package controllers

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"github.com/gofiber/fiber/v2"

	"github.com/masteragentes/masteragentes/app/models"
	"github.com/masteragentes/masteragentes/app/repository"
	"github.com/masteragentes/masteragentes/internal/pkg/chatvolt"
	"github.com/masteragentes/masteragentes/internal/pkg/statistics"
	"github.com/masteragentes/masteragentes/internal/pkg/usercontext"
)

const productImageTemplate = "https://via.placeholder.com/300x200/8b5cf6/ffffff?text=%s.jpg"

// ChatVoltController serves the ChatVolt read/write proxy. Requests reach it
// through the credential middleware, which resolves the tenant id.
type ChatVoltController struct {
	repos *repository.Repositories
}

// NewChatVoltController creates a new proxy controller with repository dependencies
func NewChatVoltController(repos *repository.Repositories) *ChatVoltController {
	return &ChatVoltController{repos: repos}
}

var chatVoltController *ChatVoltController

// InitializeChatVoltController initializes the global proxy controller
func InitializeChatVoltController(repos *repository.Repositories) {
	chatVoltController = NewChatVoltController(repos)
}

// HandleChatVoltProxy - adapter for the proxy read path
func HandleChatVoltProxy(c *fiber.Ctx) error {
	return chatVoltController.HandleProxy(c)
}

// HandleChatVoltCommand - adapter for the proxy write path
func HandleChatVoltCommand(c *fiber.Ctx) error {
	return chatVoltController.HandleCommand(c)
}

// HandleProxy dispatches a read request on the route query parameter.
func (cc *ChatVoltController) HandleProxy(c *fiber.Ctx) error {
	tenantID := usercontext.GetTenantID(c)

	route, ok := chatvolt.ParseProxyRoute(c.Query("route"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":            "Route not found",
			"message":          "Available routes: products, agents, contacts, conversations, status",
			"available_routes": chatvolt.RouteNames(),
		})
	}

	switch route {
	case chatvolt.RouteProducts:
		return cc.handleProducts(c, tenantID)
	case chatvolt.RouteAgents:
		return cc.handleAgents(c, tenantID)
	case chatvolt.RouteContacts:
		return cc.handleContacts(c, tenantID)
	case chatvolt.RouteConversations:
		return cc.handleConversations(c, tenantID)
	case chatvolt.RouteStatus:
		return cc.handleStatus(c, tenantID)
	}

	// Unreachable: ParseProxyRoute only returns the cases above.
	return c.SendStatus(fiber.StatusNotFound)
}

// productView re-labels an agent as a ChatVolt product.
type productView struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Available   bool      `json:"available"`
	Image       string    `json:"image"`
	Details     fiber.Map `json:"details"`
}

func agentAsProduct(a models.Agent) productView {
	return productView{
		ID:          a.ID,
		Name:        a.Name,
		Category:    a.Kind,
		Status:      a.Status,
		Description: fmt.Sprintf("%s agent - %s", a.Kind, a.Name),
		Price:       a.Stats.Price,
		Available:   a.Status == models.AgentStatusActive,
		Image:       fmt.Sprintf(productImageTemplate, url.QueryEscape(a.Name)),
		Details: fiber.Map{
			"config":     a.Config,
			"stats":      a.Stats,
			"created_at": apiTimestamp(a.CreatedAt),
			"updated_at": apiTimestamp(a.UpdatedAt),
		},
	}
}

func (cc *ChatVoltController) handleProducts(c *fiber.Ctx, tenantID uint) error {
	agents, err := cc.repos.Agent.ListByUser(tenantID)
	if err != nil {
		return respondInternalError(c, "load products", err)
	}

	products := make([]productView, len(agents))
	for i, a := range agents {
		products[i] = agentAsProduct(a)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"total":     len(products),
		"products":  products,
		"timestamp": nowTimestamp(),
	})
}

func (cc *ChatVoltController) handleAgents(c *fiber.Ctx, tenantID uint) error {
	agents, err := cc.repos.Agent.ListByUserWithConversationCount(tenantID)
	if err != nil {
		return respondInternalError(c, "load agents", err)
	}

	views := make([]fiber.Map, len(agents))
	for i, a := range agents {
		views[i] = fiber.Map{
			"id":                  a.Agent.ID,
			"name":                a.Agent.Name,
			"kind":                a.Agent.Kind,
			"status":              a.Agent.Status,
			"total_conversations": a.ConversationCount,
			"config":              a.Agent.Config,
			"stats":               a.Agent.Stats,
			"created_at":          apiTimestamp(a.Agent.CreatedAt),
			"updated_at":          apiTimestamp(a.Agent.UpdatedAt),
		}
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"total":     len(views),
		"agents":    views,
		"timestamp": nowTimestamp(),
	})
}

func (cc *ChatVoltController) handleContacts(c *fiber.Ctx, tenantID uint) error {
	contacts, err := cc.repos.Contact.ListByUser(tenantID, 100)
	if err != nil {
		return respondInternalError(c, "load contacts", err)
	}

	views := make([]fiber.Map, len(contacts))
	for i, ct := range contacts {
		views[i] = fiber.Map{
			"id":         ct.ID,
			"name":       ct.Name,
			"email":      ct.Email,
			"phone":      ct.Phone,
			"origin":     ct.Origin,
			"tags":       ct.Tags,
			"created_at": apiTimestamp(ct.CreatedAt),
			"updated_at": apiTimestamp(ct.UpdatedAt),
		}
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"total":     len(views),
		"contacts":  views,
		"timestamp": nowTimestamp(),
	})
}

func (cc *ChatVoltController) handleConversations(c *fiber.Ctx, tenantID uint) error {
	conversations, err := cc.repos.Conversation.ListByUserWithAgent(tenantID, 50)
	if err != nil {
		return respondInternalError(c, "load conversations", err)
	}

	views := make([]fiber.Map, len(conversations))
	for i, cv := range conversations {
		var agent fiber.Map
		if cv.Agent != nil {
			agent = fiber.Map{
				"id":   cv.Agent.ID,
				"name": cv.Agent.Name,
				"kind": cv.Agent.Kind,
			}
		}
		views[i] = fiber.Map{
			"id":          cv.ID,
			"client_name": cv.ClientName,
			"phone":       cv.Phone,
			"email":       cv.Email,
			"status":      cv.Status,
			"origin":      cv.Origin,
			"external_id": cv.ExternalID,
			"agent":       agent,
			"messages":    cv.Messages,
			"created_at":  apiTimestamp(cv.CreatedAt),
			"updated_at":  apiTimestamp(cv.UpdatedAt),
		}
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"total":         len(views),
		"conversations": views,
		"timestamp":     nowTimestamp(),
	})
}

func (cc *ChatVoltController) handleStatus(c *fiber.Ctx, tenantID uint) error {
	var (
		totalAgents, activeAgents        int64
		totalContacts                    int64
		totalConversations, activeConvs  int64
		errAgents, errActive, errContact error
		errConvs, errActiveConvs         error
	)

	// Five independent counts; inactive and ended are derived, not queried.
	var wg sync.WaitGroup
	wg.Add(5)
	go func() { defer wg.Done(); totalAgents, errAgents = cc.repos.Agent.CountByUser(tenantID) }()
	go func() {
		defer wg.Done()
		activeAgents, errActive = cc.repos.Agent.CountByUserAndStatus(tenantID, models.AgentStatusActive)
	}()
	go func() { defer wg.Done(); totalContacts, errContact = cc.repos.Contact.CountByUser(tenantID) }()
	go func() { defer wg.Done(); totalConversations, errConvs = cc.repos.Conversation.CountByUser(tenantID) }()
	go func() {
		defer wg.Done()
		activeConvs, errActiveConvs = cc.repos.Conversation.CountByUserAndStatus(tenantID, models.ConversationStatusActive)
	}()
	wg.Wait()

	for _, err := range []error{errAgents, errActive, errContact, errConvs, errActiveConvs} {
		if err != nil {
			return respondInternalError(c, "load status", err)
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"status":  "online",
		"stats": fiber.Map{
			"agents": fiber.Map{
				"total":    totalAgents,
				"active":   activeAgents,
				"inactive": totalAgents - activeAgents,
			},
			"contacts": fiber.Map{
				"total": totalContacts,
			},
			"conversations": fiber.Map{
				"total":  totalConversations,
				"active": activeConvs,
				"ended":  totalConversations - activeConvs,
			},
		},
		"timestamp":   nowTimestamp(),
		"api_version": "1.0.0",
	})
}

// proxyCommand is the body of the proxy write path.
type proxyCommand struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type newConversationData struct {
	ClientName string             `json:"client_name"`
	Phone      string             `json:"phone"`
	Email      string             `json:"email"`
	ExternalID string             `json:"external_id"`
	Messages   models.MessageList `json:"messages"`
	AgentID    *uint              `json:"agent_id"`
}

type updateConversationData struct {
	ConversationID uint               `json:"conversation_id"`
	Status         string             `json:"status"`
	Messages       models.MessageList `json:"messages"`
}

type newContactData struct {
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Phone string   `json:"phone"`
	Tags  []string `json:"tags"`
}

// HandleCommand dispatches a write request on the type field of the body.
func (cc *ChatVoltController) HandleCommand(c *fiber.Ctx) error {
	tenantID := usercontext.GetTenantID(c)

	var cmd proxyCommand
	if err := c.BodyParser(&cmd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	cmdType, ok := chatvolt.ParseCommandType(cmd.Type)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unsupported operation type",
		})
	}

	switch cmdType {
	case chatvolt.CommandNewConversation:
		return cc.createConversation(c, tenantID, cmd.Data)
	case chatvolt.CommandUpdateConversation:
		return cc.updateConversation(c, tenantID, cmd.Data)
	case chatvolt.CommandNewContact:
		return cc.createContact(c, tenantID, cmd.Data)
	}

	// Unreachable: ParseCommandType only returns the cases above.
	return c.SendStatus(fiber.StatusBadRequest)
}

func (cc *ChatVoltController) createConversation(c *fiber.Ctx, tenantID uint, data json.RawMessage) error {
	var in newConversationData
	if err := json.Unmarshal(data, &in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid conversation data",
		})
	}

	conv := &models.Conversation{
		UserID:     tenantID,
		ClientName: in.ClientName,
		Phone:      in.Phone,
		Email:      in.Email,
		Origin:     models.ConversationOriginChatVolt,
		Messages:   in.Messages,
		AgentID:    in.AgentID,
	}
	if in.ExternalID != "" {
		conv.ExternalID = &in.ExternalID
	}

	if err := cc.repos.Conversation.Create(conv); err != nil {
		return respondInternalError(c, "create conversation", err)
	}
	statistics.InvalidateDashboardStats(tenantID)

	return c.JSON(fiber.Map{
		"success":         true,
		"conversation_id": conv.ID,
		"message":         "Conversation created successfully",
	})
}

func (cc *ChatVoltController) updateConversation(c *fiber.Ctx, tenantID uint, data json.RawMessage) error {
	var in updateConversationData
	if err := json.Unmarshal(data, &in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid conversation data",
		})
	}

	conv, err := cc.repos.Conversation.UpdateForUser(tenantID, in.ConversationID, in.Status, in.Messages)
	if err != nil {
		if isNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Conversation not found",
			})
		}
		return respondInternalError(c, "update conversation", err)
	}
	statistics.InvalidateDashboardStats(tenantID)

	return c.JSON(fiber.Map{
		"success":         true,
		"conversation_id": conv.ID,
		"message":         "Conversation updated successfully",
	})
}

func (cc *ChatVoltController) createContact(c *fiber.Ctx, tenantID uint, data json.RawMessage) error {
	var in newContactData
	if err := json.Unmarshal(data, &in); err != nil || in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid contact data",
		})
	}

	contact := &models.Contact{
		UserID: tenantID,
		Name:   in.Name,
		Email:  in.Email,
		Phone:  in.Phone,
		Origin: models.ContactOriginChatVolt,
		Tags:   models.StringList(in.Tags),
	}
	if err := cc.repos.Contact.Create(contact); err != nil {
		return respondInternalError(c, "create contact", err)
	}
	statistics.InvalidateDashboardStats(tenantID)

	return c.JSON(fiber.Map{
		"success":    true,
		"contact_id": contact.ID,
		"message":    "Contact created successfully",
	})
}
