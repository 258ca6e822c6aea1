package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masteragentes/masteragentes/app/models"
	"github.com/masteragentes/masteragentes/app/repository"
	"github.com/masteragentes/masteragentes/internal/pkg/usercontext"
)

func newAgentTestApp(repos *repository.Repositories, userID uint) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if userID != 0 {
			usercontext.SetUserContext(c, usercontext.UserContext{UserID: userID, IsLoggedIn: true})
		}
		return c.Next()
	})

	ac := NewAgentController(repos)
	app.Get("/api/agents", ac.HandleList)
	app.Post("/api/agents", ac.HandleCreate)
	app.Put("/api/agents/:id", ac.HandleUpdate)
	app.Delete("/api/agents/:id", ac.HandleDelete)
	return app
}

func TestAgentCreateAndList(t *testing.T) {
	repos := newFakeRepositories()
	app := newAgentTestApp(repos, 7)

	resp, body := jsonRequest(t, app, http.MethodPost, "/api/agents", fiber.Map{
		"name": "Sales Bot",
		"kind": "sales",
		"config": fiber.Map{
			"welcome_message": "Hello!",
			"business_hours":  fiber.Map{"start": "08:00", "end": "18:00"},
		},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	resp, body = jsonRequest(t, app, http.MethodGet, "/api/agents", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["total"])

	agents := body["agents"].([]interface{})
	first := agents[0].(map[string]interface{})
	assert.Equal(t, "Sales Bot", first["name"])
	// Status defaults to active when the request does not set it
	assert.Equal(t, models.AgentStatusActive, first["status"])
}

func TestAgentCreateValidation(t *testing.T) {
	app := newAgentTestApp(newFakeRepositories(), 7)

	// Unknown kind
	resp, _ := jsonRequest(t, app, http.MethodPost, "/api/agents", fiber.Map{"name": "Bot", "kind": "marketing"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Name too short
	resp, _ = jsonRequest(t, app, http.MethodPost, "/api/agents", fiber.Map{"name": "B", "kind": "sales"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Malformed business hours
	resp, _ = jsonRequest(t, app, http.MethodPost, "/api/agents", fiber.Map{
		"name":   "Bot",
		"kind":   "sales",
		"config": fiber.Map{"business_hours": fiber.Map{"start": "8h", "end": "18:00"}},
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAgentUpdate(t *testing.T) {
	repos := newFakeRepositories()
	agent := &models.Agent{UserID: 7, Name: "Sales Bot", Kind: models.AgentKindSales, Status: models.AgentStatusActive}
	require.NoError(t, repos.Agent.Create(agent))
	app := newAgentTestApp(repos, 7)

	resp, body := jsonRequest(t, app, http.MethodPut, fmt.Sprintf("/api/agents/%d", agent.ID), fiber.Map{
		"status": "paused",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	updated, err := repos.Agent.GetByID(7, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AgentStatusPaused, updated.Status)
	assert.Equal(t, "Sales Bot", updated.Name)
}

func TestAgentUpdateNotOwned(t *testing.T) {
	repos := newFakeRepositories()
	agent := &models.Agent{UserID: 8, Name: "Theirs", Kind: models.AgentKindSales, Status: models.AgentStatusActive}
	require.NoError(t, repos.Agent.Create(agent))
	app := newAgentTestApp(repos, 7)

	resp, _ := jsonRequest(t, app, http.MethodPut, fmt.Sprintf("/api/agents/%d", agent.ID), fiber.Map{"status": "paused"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAgentDelete(t *testing.T) {
	repos := newFakeRepositories()
	agent := &models.Agent{UserID: 7, Name: "Sales Bot", Kind: models.AgentKindSales, Status: models.AgentStatusActive}
	require.NoError(t, repos.Agent.Create(agent))
	app := newAgentTestApp(repos, 7)

	resp, _ := jsonRequest(t, app, http.MethodDelete, fmt.Sprintf("/api/agents/%d", agent.ID), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = jsonRequest(t, app, http.MethodDelete, fmt.Sprintf("/api/agents/%d", agent.ID), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
