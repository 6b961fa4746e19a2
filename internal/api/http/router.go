package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bank-backoffice/internal/api/http/handlers"
	"github.com/spec-kit/bank-backoffice/internal/auth"
	"github.com/spec-kit/bank-backoffice/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Customers  *handlers.CustomersHandler
	Staff      *handlers.StaffHandler
	Auth       *handlers.AuthHandler
	AccessGate *auth.AccessGate
}

// RegisterRoutes wires HTTP routes. Required role sets are attached here, at
// registration time, not inside handlers.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	customers := app.Group("/customers")
	customers.Post("/register", cfg.Customers.Register)
	customers.Post("/login", cfg.Customers.Login)

	customerOnly := customers.Group("", cfg.AccessGate.Handle, auth.RequireCustomer())
	customerOnly.Get("/me", cfg.Customers.Me)
	customerOnly.Put("/me", cfg.Customers.UpdateMe)
	customerOnly.Put("/updatePassword", cfg.Customers.UpdatePassword)

	staff := app.Group("/staff")
	staff.Post("/login", cfg.Staff.Login)

	staffOnly := staff.Group("", cfg.AccessGate.Handle, auth.RequireStaffRole())
	staffOnly.Get("/me", cfg.Staff.Me)
	staffOnly.Put("/updatePassword", cfg.Staff.UpdatePassword)

	management := staff.Group("/customers", cfg.AccessGate.Handle, auth.RequireStaffRole(domain.RoleStaff, domain.RoleAdmin))
	management.Get("/", cfg.Staff.ListCustomers)
	management.Put("/:id/status", cfg.Staff.ChangeCustomerStatus)

	adminOnly := staff.Group("/members", cfg.AccessGate.Handle, auth.RequireStaffRole(domain.RoleAdmin))
	adminOnly.Get("/", cfg.Staff.ListStaff)
	adminOnly.Post("/", cfg.Staff.CreateStaff)
	adminOnly.Put("/:id/status", cfg.Staff.ChangeStaffStatus)

	authGroup := app.Group("/auth")
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)
	authGroup.Post("/logout", cfg.AccessGate.Handle, auth.RequireAuthenticated(), cfg.Auth.Logout)
}
