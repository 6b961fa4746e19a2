package handlers

import (
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bank-backoffice/internal/api/dto"
	"github.com/spec-kit/bank-backoffice/internal/auth"
	"github.com/spec-kit/bank-backoffice/internal/registration"
	"github.com/spec-kit/bank-backoffice/internal/service"
	apperrors "github.com/spec-kit/bank-backoffice/pkg/util"
)

// CustomersHandler exposes registration, login and profile endpoints for
// customers.
type CustomersHandler struct {
	auth         *service.AuthService
	registration *service.RegistrationService
	customers    *service.CustomerService
}

// NewCustomersHandler constructs handler.
func NewCustomersHandler(authService *service.AuthService, registrationService *service.RegistrationService, customerService *service.CustomerService) *CustomersHandler {
	return &CustomersHandler{auth: authService, registration: registrationService, customers: customerService}
}

// Register handles POST /customers/register (multipart).
func (h *CustomersHandler) Register(c *fiber.Ctx) error {
	in := &registration.Input{
		Username:         c.FormValue("username"),
		Email:            c.FormValue("email"),
		Password:         c.FormValue("password"),
		FullName:         c.FormValue("fullName"),
		DateOfBirth:      c.FormValue("dateOfBirth"),
		IdentityNumber:   c.FormValue("identityNumber"),
		RegistrationDate: c.FormValue("registrationDate"),
	}
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return apperrors.NewValidationError("INVALID_PAYLOAD", "username, email and password are required")
	}

	var err error
	if in.FrontImage, err = readImage(c, "frontImage"); err != nil {
		return err
	}
	if in.BackImage, err = readImage(c, "backImage"); err != nil {
		return err
	}

	customer, token, exp, err := h.registration.Register(c.UserContext(), in)
	if err != nil {
		return err
	}

	return successWithToken(c, http.StatusCreated, token, dto.AuthResponse{Token: token, ExpiresAt: exp}, fiber.Map{
		"customer": customerResponse(customer),
	})
}

// Login handles POST /customers/login.
func (h *CustomersHandler) Login(c *fiber.Ctx) error {
	var req dto.CustomerLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("INVALID_PAYLOAD", "invalid payload")
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("INVALID_PAYLOAD", "username and password required")
	}

	customer, token, exp, err := h.auth.LoginCustomer(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return successWithToken(c, http.StatusOK, token, dto.AuthResponse{Token: token, ExpiresAt: exp}, fiber.Map{
		"customer": customerResponse(customer),
	})
}

// Me handles GET /customers/me.
func (h *CustomersHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Customer == nil {
		return apperrors.NewUnauthorized(apperrors.CodeMissingCredential, "authentication required")
	}

	customer, identity, err := h.customers.Profile(c.UserContext(), principal.Customer.ID)
	if err != nil {
		return err
	}

	return success(c, http.StatusOK, fiber.Map{
		"customer": customerResponse(customer),
		"identity": identityResponse(identity),
	})
}

// UpdateMe handles PUT /customers/me.
func (h *CustomersHandler) UpdateMe(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Customer == nil {
		return apperrors.NewUnauthorized(apperrors.CodeMissingCredential, "authentication required")
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("INVALID_PAYLOAD", "invalid payload")
	}

	customer, err := h.customers.UpdateProfile(c.UserContext(), principal.Customer.ID, service.UpdateProfileInput{
		Email:    req.Email,
		FullName: req.FullName,
	})
	if err != nil {
		return err
	}

	return success(c, http.StatusOK, fiber.Map{"customer": customerResponse(customer)})
}

// UpdatePassword handles PUT /customers/updatePassword.
func (h *CustomersHandler) UpdatePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Customer == nil {
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

// readImage extracts a multipart image upload. A missing part is not an error
// here; completeness is checked by the registration pipeline so its
// first-failure ordering holds.
func readImage(c *fiber.Ctx, field string) (*registration.ImageUpload, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, apperrors.NewValidationError("INVALID_PAYLOAD", "unreadable upload: "+field)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, apperrors.NewValidationError("INVALID_PAYLOAD", "unreadable upload: "+field)
	}
	return &registration.ImageUpload{
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
