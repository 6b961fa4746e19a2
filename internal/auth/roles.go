package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bank-backoffice/internal/domain"
	apperrors "github.com/spec-kit/bank-backoffice/pkg/util"
)

// RequireCustomer ensures a customer principal is authenticated.
func RequireCustomer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Type != domain.PrincipalCustomer {
			return apperrors.NewForbidden(apperrors.CodeForbidden, "customer account required")
		}
		return c.Next()
	}
}

// RequireStaffRole ensures the caller is staff holding one of the allowed
// roles. The allowed set is fixed at route registration, not per request.
// With no roles listed, any staff principal passes.
func RequireStaffRole(allowed ...domain.StaffRole) fiber.Handler {
	allowedSet := make(map[domain.StaffRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Type != domain.PrincipalStaff || principal.Staff == nil {
			return apperrors.NewForbidden(apperrors.CodeForbidden, "staff role required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Staff.Role]; !exists {
			return apperrors.NewForbidden(apperrors.CodeForbidden, "insufficient role")
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures a principal of either type is present.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized(apperrors.CodeMissingCredential, "authentication required")
		}
		return c.Next()
	}
}
