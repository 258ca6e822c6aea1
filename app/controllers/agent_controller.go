package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/masteragentes/masteragentes/app/models"
	"github.com/masteragentes/masteragentes/app/repository"
	"github.com/masteragentes/masteragentes/internal/pkg/statistics"
	"github.com/masteragentes/masteragentes/internal/pkg/usercontext"
)

// AgentController manages the user's agents through the dashboard API.
type AgentController struct {
	repos *repository.Repositories
}

// NewAgentController creates a new agent controller with repository dependencies
func NewAgentController(repos *repository.Repositories) *AgentController {
	return &AgentController{repos: repos}
}

var agentController *AgentController

// InitializeAgentController initializes the global agent controller
func InitializeAgentController(repos *repository.Repositories) {
	agentController = NewAgentController(repos)
}

// HandleListAgents - adapter for listing agents
func HandleListAgents(c *fiber.Ctx) error {
	return agentController.HandleList(c)
}

// HandleCreateAgent - adapter for creating an agent
func HandleCreateAgent(c *fiber.Ctx) error {
	return agentController.HandleCreate(c)
}

// HandleUpdateAgent - adapter for updating an agent
func HandleUpdateAgent(c *fiber.Ctx) error {
	return agentController.HandleUpdate(c)
}

// HandleDeleteAgent - adapter for deleting an agent
func HandleDeleteAgent(c *fiber.Ctx) error {
	return agentController.HandleDelete(c)
}

// HandleList returns the user's agents with their conversation counts.
func (ac *AgentController) HandleList(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return respondUnauthorized(c)
	}

	agents, err := ac.repos.Agent.ListByUserWithConversationCount(userID)
	if err != nil {
		return respondInternalError(c, "load agents", err)
	}

	views := make([]fiber.Map, len(agents))
	for i, a := range agents {
		views[i] = fiber.Map{
			"id":                  a.Agent.ID,
			"uuid":                a.Agent.UUID,
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
		"agents": views,
		"total":  len(views),
	})
}

type agentRequest struct {
	Name   string              `json:"name"`
	Kind   string              `json:"kind"`
	Status string              `json:"status"`
	Config *models.AgentConfig `json:"config"`
	Stats  *models.AgentStats  `json:"stats"`
}

// HandleCreate validates and stores a new agent.
func (ac *AgentController) HandleCreate(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return respondUnauthorized(c)
	}

	var req agentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	agent := models.Agent{
		UserID: userID,
		Name:   req.Name,
		Kind:   req.Kind,
		Status: req.Status,
	}
	if agent.Status == "" {
		agent.Status = models.AgentStatusActive
	}
	if req.Config != nil {
		agent.Config = *req.Config
	}
	if req.Stats != nil {
		agent.Stats = *req.Stats
	}

	if err := agent.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid agent data",
			"message": err.Error(),
		})
	}

	if err := ac.repos.Agent.Create(&agent); err != nil {
		return respondInternalError(c, "create agent", err)
	}
	statistics.InvalidateDashboardStats(userID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"agent":   agent,
	})
}

// HandleUpdate applies partial changes to an agent the user owns.
func (ac *AgentController) HandleUpdate(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return respondUnauthorized(c)
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid agent id",
		})
	}

	agent, err := ac.repos.Agent.GetByID(userID, uint(id))
	if err != nil {
		if isNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Agent not found",
			})
		}
		return respondInternalError(c, "load agent", err)
	}

	var req agentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Name != "" {
		agent.Name = req.Name
	}
	if req.Kind != "" {
		agent.Kind = req.Kind
	}
	if req.Status != "" {
		agent.Status = req.Status
	}
	if req.Config != nil {
		agent.Config = *req.Config
	}
	if req.Stats != nil {
		agent.Stats = *req.Stats
	}

	if err := agent.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid agent data",
			"message": err.Error(),
		})
	}

	if err := ac.repos.Agent.Update(agent); err != nil {
		return respondInternalError(c, "update agent", err)
	}
	statistics.InvalidateDashboardStats(userID)

	return c.JSON(fiber.Map{
		"success": true,
		"agent":   agent,
	})
}

// HandleDelete removes an agent the user owns.
func (ac *AgentController) HandleDelete(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return respondUnauthorized(c)
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid agent id",
		})
	}

	if err := ac.repos.Agent.Delete(userID, uint(id)); err != nil {
		if isNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Agent not found",
			})
		}
		return respondInternalError(c, "delete agent", err)
	}
	statistics.InvalidateDashboardStats(userID)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Agent deleted",
	})
}
