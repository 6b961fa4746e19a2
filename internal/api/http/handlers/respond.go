package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bank-backoffice/internal/api/dto"
	"github.com/spec-kit/bank-backoffice/internal/domain"
)

// success renders the uniform success envelope.
func success(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

// successWithToken renders the success envelope with a top-level token.
func successWithToken(c *fiber.Ctx, status int, token string, auth dto.AuthResponse, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"status":     "success",
		"token":      token,
		"expires_at": auth.ExpiresAt,
		"data":       data,
	})
}

func customerResponse(customer *domain.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:          customer.ID,
		Username:    customer.Username,
		Email:       customer.Email,
		FullName:    customer.FullName,
		DateOfBirth: customer.DateOfBirth,
		Status:      string(customer.Status),
		CreatedAt:   customer.CreatedAt,
	}
}

func staffResponse(staff *domain.Staff) dto.StaffResponse {
	return dto.StaffResponse{
		ID:        staff.ID,
		Username:  staff.Username,
		FullName:  staff.FullName,
		Role:      string(staff.Role),
		Status:    string(staff.Status),
		CreatedAt: staff.CreatedAt,
	}
}

func identityResponse(identity *domain.IdentityDocument) *dto.IdentityResponse {
	if identity == nil {
		return nil
	}
	return &dto.IdentityResponse{
		IdentityNumber:   identity.IdentityNumber,
		RegistrationDate: identity.RegistrationDate,
	}
}
