package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/masteragentes/masteragentes/app/repository"
	"github.com/masteragentes/masteragentes/internal/pkg/statistics"
	"github.com/masteragentes/masteragentes/internal/pkg/usercontext"
)

// DashboardController serves the dashboard counters.
type DashboardController struct {
	repos *repository.Repositories
}

// NewDashboardController creates a new dashboard controller with repository dependencies
func NewDashboardController(repos *repository.Repositories) *DashboardController {
	return &DashboardController{repos: repos}
}

var dashboardController *DashboardController

// InitializeDashboardController initializes the global dashboard controller
func InitializeDashboardController(repos *repository.Repositories) {
	dashboardController = NewDashboardController(repos)
}

// HandleDashboardStats - adapter for the dashboard counters
func HandleDashboardStats(c *fiber.Ctx) error {
	return dashboardController.HandleStats(c)
}

// HandleStats returns the cached per-user counters.
func (dc *DashboardController) HandleStats(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return respondUnauthorized(c)
	}

	stats, err := statistics.GetDashboardStats(dc.repos, userID)
	if err != nil {
		return respondInternalError(c, "load dashboard statistics", err)
	}

	return c.JSON(fiber.Map{
		"stats":     stats,
		"timestamp": nowTimestamp(),
	})
}
