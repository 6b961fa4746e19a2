package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bank-backoffice/internal/api/dto"
	"github.com/spec-kit/bank-backoffice/internal/auth"
	"github.com/spec-kit/bank-backoffice/internal/service"
	apperrors "github.com/spec-kit/bank-backoffice/pkg/util"
)

// StaffHandler exposes staff auth and the staff-management surface.
type StaffHandler struct {
	auth  *service.AuthService
	staff *service.StaffService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(authService *service.AuthService, staffService *service.StaffService) *StaffHandler {
	return &StaffHandler{auth: authService, staff: staffService}
}

// Login handles POST /staff/login.
func (h *StaffHandler) Login(c *fiber.Ctx) error {
	var req dto.StaffLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("INVALID_PAYLOAD", "invalid payload")
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("INVALID_PAYLOAD", "username and password required")
	}

	staff, token, exp, err := h.auth.LoginStaff(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return successWithToken(c, http.StatusOK, token, dto.AuthResponse{Token: token, ExpiresAt: exp}, fiber.Map{
		"staff": staffResponse(staff),
	})
}

// Me handles GET /staff/me.
func (h *StaffHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized(apperrors.CodeMissingCredential, "authentication required")
	}
	return success(c, http.StatusOK, fiber.Map{"staff": staffResponse(principal.Staff)})
}

// UpdatePassword handles PUT /staff/updatePassword.
func (h *StaffHandler) UpdatePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized(apperrors.CodeMissingCredential, "authentication required")
	}

	var req dto.PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("INVALID_PAYLOAD", "invalid payload")
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("INVALID_PAYLOAD", "current and new password required")
	}

	if err := h.auth.ChangePassword(c.UserContext(), principal, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"password": "changed"})
}

// ListCustomers handles GET /staff/customers.
func (h *StaffHandler) ListCustomers(c *fiber.Ctx) error {
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)

	customers, err := h.staff.ListCustomers(c.UserContext(), c.Query("status"), limit, offset)
	if err != nil {
		return err
	}

	responses := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		responses = append(responses, customerResponse(&customers[i]))
	}
	return success(c, http.StatusOK, fiber.Map{
		"customers": responses,
		"limit":     limit,
		"offset":    offset,
	})
}

// ChangeCustomerStatus handles PUT /staff/customers/:id/status.
func (h *StaffHandler) ChangeCustomerStatus(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	var req dto.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("INVALID_PAYLOAD", "invalid payload")
	}

	customer, err := h.staff.ChangeCustomerStatus(c.UserContext(), principal, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"customer": customerResponse(customer)})
}

// ListStaff handles GET /staff/members (admin only; admins never listed).
func (h *StaffHandler) ListStaff(c *fiber.Ctx) error {
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)

	members, err := h.staff.ListStaff(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}

	responses := make([]dto.StaffResponse, 0, len(members))
	for i := range members {
		responses = append(responses, staffResponse(&members[i]))
	}
	return success(c, http.StatusOK, fiber.Map{
		"staff":  responses,
		"limit":  limit,
		"offset": offset,
	})
}

// CreateStaff handles POST /staff/members (admin only).
func (h *StaffHandler) CreateStaff(c *fiber.Ctx) error {
	var req dto.CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("INVALID_PAYLOAD", "invalid payload")
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("INVALID_PAYLOAD", "username and password required")
	}

	staff, err := h.staff.CreateStaff(c.UserContext(), req.Username, req.FullName, req.Password, req.Role)
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, fiber.Map{"staff": staffResponse(staff)})
}

// ChangeStaffStatus handles PUT /staff/members/:id/status (admin only).
func (h *StaffHandler) ChangeStaffStatus(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	var req dto.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("INVALID_PAYLOAD", "invalid payload")
	}

	staff, err := h.staff.ChangeStaffStatus(c.UserContext(), principal, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"staff": staffResponse(staff)})
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
