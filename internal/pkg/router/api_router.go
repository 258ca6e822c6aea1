package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/masteragentes/masteragentes/app/controllers"
	"github.com/masteragentes/masteragentes/app/repository"
	"github.com/masteragentes/masteragentes/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	repos := repository.GetGlobalRepositories()

	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Master Agentes API",
		})
	})

	// ChatVolt bridge. The proxy authenticates with API key headers; the
	// webhook resolves the tenant itself and must stay outside the
	// credential middleware.
	chatVoltAuth := middleware.ChatVoltAuthMiddleware(repos.ChatVoltConfig)
	api.Get("/chatvolt", chatVoltAuth, controllers.HandleChatVoltProxy)
	api.Post("/chatvolt", chatVoltAuth, controllers.HandleChatVoltCommand)
	api.Get("/chatvolt/webhook", controllers.HandleChatVoltWebhookInfo)
	api.Post("/chatvolt/webhook", controllers.HandleChatVoltWebhook)

	// Session auth
	api.Post("/auth/register", controllers.HandleRegister)
	api.Post("/auth/login", controllers.HandleLogin)
	api.Post("/auth/logout", controllers.HandleLogout)

	// Credential management for the logged-in user
	config := api.Group("/chatvolt/config", middleware.RequireAuth)
	config.Get("/", controllers.HandleGetChatVoltConfig)
	config.Post("/", controllers.HandleSaveChatVoltConfig)
	config.Put("/active", controllers.HandleToggleChatVoltConfig)
	config.Delete("/", controllers.HandleDeleteChatVoltConfig)

	// Dashboard API
	api.Get("/agents", middleware.RequireAuth, controllers.HandleListAgents)
	api.Post("/agents", middleware.RequireAuth, controllers.HandleCreateAgent)
	api.Put("/agents/:id", middleware.RequireAuth, controllers.HandleUpdateAgent)
	api.Delete("/agents/:id", middleware.RequireAuth, controllers.HandleDeleteAgent)

	api.Get("/contacts", middleware.RequireAuth, controllers.HandleListContacts)
	api.Post("/contacts", middleware.RequireAuth, controllers.HandleCreateContact)
	api.Delete("/contacts/:id", middleware.RequireAuth, controllers.HandleDeleteContact)

	api.Get("/dashboard/stats", middleware.RequireAuth, controllers.HandleDashboardStats)
	api.Get("/reports", middleware.RequireAuth, controllers.HandleReports)
	api.Get("/activities", middleware.RequireAuth, controllers.HandleActivities)

	api.Get("/user/profile", middleware.RequireAuth, controllers.HandleGetProfile)
	api.Put("/user/profile", middleware.RequireAuth, controllers.HandleUpdateProfile)

	// Public integration guide
	api.Get("/docs/chatvolt-integration", controllers.HandleChatVoltIntegrationDocs)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
