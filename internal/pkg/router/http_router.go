package router

import (
	"github.com/masteragentes/masteragentes/app/controllers"
	"github.com/masteragentes/masteragentes/app/repository"
	"github.com/masteragentes/masteragentes/internal/pkg/middleware"
	"github.com/masteragentes/masteragentes/internal/pkg/oauth"
	"github.com/masteragentes/masteragentes/internal/pkg/session"

	"github.com/gofiber/fiber/v2"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// init oauth providers
	oauth.Setup()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	// Initialize all controllers with the shared repositories
	repos := repository.GetGlobalRepositories()
	controllers.InitializeChatVoltController(repos)
	controllers.InitializeChatVoltWebhookController(repos)
	controllers.InitializeChatVoltConfigController(repos)
	controllers.InitializeAgentController(repos)
	controllers.InitializeContactController(repos)
	controllers.InitializeDashboardController(repos)
	controllers.InitializeReportController(repos)
	controllers.InitializeActivityController(repos)
	controllers.InitializeProfileController(repos)
	controllers.InitializeAuthController(repos)
	controllers.InitializeOAuthController(repos)

	h.registerOAuthRoutes(app)
}

// Provider login via Goth. These stay outside /api because goth_fiber
// manages its own session cookie on this path prefix.
func (h HttpRouter) registerOAuthRoutes(app *fiber.App) {
	app.Get("/auth/:provider", controllers.HandleOAuthBegin)
	app.Get("/auth/:provider/callback", controllers.HandleOAuthCallback)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
