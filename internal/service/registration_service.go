package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/bank-backoffice/internal/auth"
	"github.com/spec-kit/bank-backoffice/internal/config"
	"github.com/spec-kit/bank-backoffice/internal/domain"
	"github.com/spec-kit/bank-backoffice/internal/events"
	"github.com/spec-kit/bank-backoffice/internal/registration"
	"github.com/spec-kit/bank-backoffice/internal/repository"
	apperrors "github.com/spec-kit/bank-backoffice/pkg/util"
)

// RegistrationService runs the customer onboarding pipeline: structural
// validation, image normalization, credential hashing, the atomic
// customer+identity write, and first-token issuance.
type RegistrationService struct {
	customers    repository.CustomerRepository
	tokens       *auth.TokenManager
	dispatcher   events.Dispatcher
	bcryptCost   int
	imageQuality int
}

// NewRegistrationService builds the service.
func NewRegistrationService(cfg config.Config, customers repository.CustomerRepository, tokens *auth.TokenManager, dispatcher events.Dispatcher) *RegistrationService {
	return &RegistrationService{
		customers:    customers,
		tokens:       tokens,
		dispatcher:   dispatcher,
		bcryptCost:   cfg.Auth.BcryptCost,
		imageQuality: cfg.Identity.ImageQuality,
	}
}

// Register validates and persists a new customer with its identity document.
// The two inserts are one transaction; a uniqueness collision on username or
// email surfaces as DUPLICATE_ACCOUNT.
func (s *RegistrationService) Register(ctx context.Context, in *registration.Input) (*domain.Customer, string, time.Time, error) {
	if err := registration.Validate(in); err != nil {
		return nil, "", time.Time{}, err
	}

	frontImage, err := registration.NormalizeImage(in.FrontImage, s.imageQuality)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	backImage, err := registration.NormalizeImage(in.BackImage, s.imageQuality)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	customer := &domain.Customer{
		Username:     strings.ToLower(strings.TrimSpace(in.Username)),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		FullName:     strings.TrimSpace(in.FullName),
		DateOfBirth:  in.DateOfBirth,
		PasswordHash: hash,
		Status:       domain.StatusActive,
	}
	identity := &domain.IdentityDocument{
		IdentityNumber:   in.IdentityNumber,
		RegistrationDate: in.RegistrationDate,
		FrontImage:       frontImage,
		BackImage:        backImage,
	}

	if err := s.customers.CreateWithIdentity(ctx, customer, identity); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", time.Time{}, apperrors.NewValidationError(apperrors.CodeDuplicateAccount,
				"an account with that username or email already exists")
		}
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokens.GenerateToken(customer.ID, domain.PrincipalCustomer)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	if s.dispatcher != nil {
		customerID := customer.ID
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:            uuid.NewString(),
			Type:          events.EventCustomerRegistered,
			PrincipalType: domain.PrincipalCustomer,
			PrincipalID:   customer.ID,
			Actor:         events.Actor{Type: domain.PrincipalCustomer, CustomerID: &customerID},
			Timestamp:     time.Now(),
			Payload: events.CustomerRegisteredPayload{
				Username: customer.Username,
				Email:    customer.Email,
			},
		})
	}

	return customer, token, exp, nil
}
