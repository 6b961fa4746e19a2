package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/bank-backoffice/internal/domain"
	"github.com/spec-kit/bank-backoffice/internal/repository"
	apperrors "github.com/spec-kit/bank-backoffice/pkg/util"
)

// CustomerService exposes profile operations for authenticated customers.
type CustomerService struct {
	customers repository.CustomerRepository
}

// NewCustomerService builds the service.
func NewCustomerService(customers repository.CustomerRepository) *CustomerService {
	return &CustomerService{customers: customers}
}

// Profile returns the customer with its identity document.
func (s *CustomerService) Profile(ctx context.Context, customerID string) (*domain.Customer, *domain.IdentityDocument, error) {
	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("customer")
		}
		return nil, nil, err
	}

	identity, err := s.customers.GetIdentity(ctx, customerID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, err
	}
	return customer, identity, nil
}

// UpdateProfileInput carries the mutable profile fields; nil means unchanged.
type UpdateProfileInput struct {
	Email    *string
	FullName *string
}

// UpdateProfile mutates the customer's own profile fields. Email is
// case-folded and trimmed like at registration.
func (s *CustomerService) UpdateProfile(ctx context.Context, customerID string, in UpdateProfileInput) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("customer")
		}
		return nil, err
	}

	if in.Email != nil {
		customer.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.FullName != nil {
		customer.FullName = strings.TrimSpace(*in.FullName)
	}

	if err := s.customers.Update(ctx, customer); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewValidationError(apperrors.CodeDuplicateAccount,
				"an account with that email already exists")
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("customer")
		}
		return nil, err
	}
	return customer, nil
}
