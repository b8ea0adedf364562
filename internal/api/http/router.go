package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/taller-manrubia/workshop-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Tickets   *handlers.TicketsHandler
	Customers *handlers.CustomersHandler
	Billing   *handlers.BillingHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	tickets := app.Group("/tickets")
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Patch("/:id/tasks/:index", cfg.Tickets.ToggleTask)
	tickets.Post("/:id/finish", cfg.Tickets.FinishTicket)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)

	customers := app.Group("/customers")
	customers.Get("/", cfg.Customers.ListCustomers)
	customers.Get("/lookup", cfg.Customers.Lookup)

	app.Post("/billing/preview", cfg.Billing.Preview)
}
