package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bank-backoffice/internal/api/dto"
	"github.com/spec-kit/bank-backoffice/internal/auth"
	"github.com/spec-kit/bank-backoffice/internal/service"
	apperrors "github.com/spec-kit/bank-backoffice/pkg/util"
)

// AuthHandler exposes session endpoints shared by both principal types.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Logout handles POST /auth/logout; the presenting token is revoked.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized(apperrors.CodeMissingCredential, "authentication required")
	}
	if err := h.auth.Logout(c.UserContext(), principal); err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"session": "ended"})
}

// RequestPasswordReset handles POST /auth/password/reset/request.
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("INVALID_PAYLOAD", "invalid payload")
	}
	if req.Identifier == "" {
		return apperrors.NewValidationError("INVALID_PAYLOAD", "identifier required")
	}

	token, err := h.auth.RequestPasswordReset(c.UserContext(), req.Identifier)
	if err != nil {
		return err
	}
	return success(c, http.StatusAccepted, fiber.Map{
		"reset_token": token.Token,
		"expires_at":  token.ExpiresAt,
	})
}

// ConfirmPasswordReset handles POST /auth/password/reset/confirm.
func (h *AuthHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("INVALID_PAYLOAD", "invalid payload")
	}
	if req.Token == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("INVALID_PAYLOAD", "token and new password required")
	}

	if err := h.auth.ConfirmPasswordReset(c.UserContext(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return success(c, http.StatusOK, fiber.Map{"password": "reset"})
}
