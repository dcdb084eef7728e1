package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/teleposta/ict-helpdesk/internal/api/http/handlers"
	"github.com/teleposta/ict-helpdesk/internal/auth"
	"github.com/teleposta/ict-helpdesk/internal/domain"
	"github.com/teleposta/ict-helpdesk/internal/ratelimit"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Directory      *handlers.DirectoryHandler
	Users          *handlers.UsersHandler
	Assistant      *handlers.AssistantHandler
	AuthMiddleware *auth.AuthMiddleware
	Limiter        *ratelimit.Limiter
	LoginPerMin    int
	ChatPerMin     int
}

// RegisterRoutes wires HTTP routes. Staff routes chain authentication with a
// role check per route.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	guard := func(role domain.Role, h fiber.Handler) []fiber.Handler {
		return append(cfg.AuthMiddleware.Require(role), h)
	}

	app.Get("/health", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/ai", cfg.Health.AI)

	app.Post("/login", cfg.Limiter.Middleware("login", cfg.LoginPerMin), cfg.Auth.Login)
	app.Post("/logout", guard(domain.RoleViewer, cfg.Auth.Logout)...)
	app.Post("/change-password", guard(domain.RoleViewer, cfg.Auth.ChangePassword)...)
	app.Get("/me", guard(domain.RoleViewer, cfg.Auth.Me)...)

	app.Post("/tickets", cfg.Tickets.CreateTicket)
	app.Get("/tickets", cfg.Tickets.ListTickets)
	app.Get("/tickets/:id", cfg.Tickets.GetTicket)
	app.Put("/tickets/:id/status", cfg.Tickets.UpdateStatus)
	app.Put("/tickets/:id/assign", cfg.Tickets.Assign)
	app.Post("/tickets/:id/rating", cfg.Tickets.Rate)
	app.Delete("/tickets/:id", cfg.Tickets.DeleteTicket)
	app.Get("/dashboard", cfg.Tickets.Dashboard)

	app.Get("/buildings", cfg.Directory.ListBuildings)
	app.Get("/departments", cfg.Directory.ListDepartments)
	app.Get("/departments/:building", cfg.Directory.DepartmentsForBuilding)

	app.Post("/ai/chat", cfg.Limiter.Middleware("chat", cfg.ChatPerMin), cfg.Assistant.Chat)
	app.Get("/ai/quick-fixes/:issue_type", cfg.Assistant.QuickFixes)

	admin := app.Group("/admin")
	admin.Get("/tickets", guard(domain.RoleAgent, cfg.Tickets.ListTicketsPaged)...)
	admin.Post("/tickets", guard(domain.RoleAgent, cfg.Tickets.StaffCreateTicket)...)
	admin.Patch("/tickets/:id/status", guard(domain.RoleAgent, cfg.Tickets.StaffUpdateStatus)...)

	admin.Get("/departments", guard(domain.RoleAdmin, cfg.Directory.ListDepartments)...)
	admin.Post("/departments", guard(domain.RoleAdmin, cfg.Directory.CreateDepartment)...)
	admin.Get("/buildings", guard(domain.RoleAdmin, cfg.Directory.ListBuildings)...)
	admin.Get("/floors", guard(domain.RoleAdmin, cfg.Directory.ListFloors)...)
	admin.Get("/users", guard(domain.RoleAdmin, cfg.Users.List)...)
	admin.Post("/users", guard(domain.RoleAdmin, cfg.Users.Create)...)
	admin.Get("/users/:id", guard(domain.RoleAdmin, cfg.Users.Get)...)
	admin.Post("/users/:id/reset-password", guard(domain.RoleAdmin, cfg.Users.ResetPassword)...)
}
