package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/bank-backoffice/internal/auth"
	"github.com/spec-kit/bank-backoffice/internal/config"
	"github.com/spec-kit/bank-backoffice/internal/domain"
	"github.com/spec-kit/bank-backoffice/internal/events"
	"github.com/spec-kit/bank-backoffice/internal/registration"
	"github.com/spec-kit/bank-backoffice/internal/repository"
	apperrors "github.com/spec-kit/bank-backoffice/pkg/util"
)

// StaffService covers the staff-management surface: staff lifecycle, customer
// listing and administrative status transitions.
type StaffService struct {
	customers  repository.CustomerRepository
	staff      repository.StaffRepository
	dispatcher events.Dispatcher
	bcryptCost int
}

// NewStaffService builds the service.
func NewStaffService(cfg config.Config, customers repository.CustomerRepository, staff repository.StaffRepository, dispatcher events.Dispatcher) *StaffService {
	return &StaffService{
		customers:  customers,
		staff:      staff,
		dispatcher: dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// CreateStaff provisions a new staff account. The ADMIN role is reserved and
// can never be assigned through this surface.
func (s *StaffService) CreateStaff(ctx context.Context, username, fullName, password, rawRole string) (*domain.Staff, error) {
	role := domain.RoleStaff
	if rawRole != "" {
		parsed, ok := domain.ParseRole(rawRole)
		if !ok {
			return nil, apperrors.NewValidationError(apperrors.CodeForbidden, "unknown role")
		}
		role = parsed
	}
	if role == domain.RoleAdmin {
		return nil, apperrors.NewForbidden(apperrors.CodeForbidden, "admin role cannot be assigned")
	}

	if err := registration.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	staff := &domain.Staff{
		Username:     strings.ToLower(strings.TrimSpace(username)),
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: hash,
		Role:         role,
		Status:       domain.StatusActive,
	}
	if err := s.staff.Create(ctx, staff); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewValidationError(apperrors.CodeDuplicateAccount,
				"a staff account with that username already exists")
		}
		return nil, err
	}
	return staff, nil
}

// ListStaff returns staff accounts; the reserved admin role is never listed.
func (s *StaffService) ListStaff(ctx context.Context, limit, offset int) ([]domain.Staff, error) {
	return s.staff.List(ctx, repository.StaffFilter{
		ExcludeAdmin: true,
		Limit:        limit,
		Offset:       offset,
	})
}

// ListCustomers returns customers, optionally filtered by status.
func (s *StaffService) ListCustomers(ctx context.Context, rawStatus string, limit, offset int) ([]domain.Customer, error) {
	filter := repository.CustomerFilter{Limit: limit, Offset: offset}
	if rawStatus != "" {
		status, ok := domain.ParseStatus(rawStatus)
		if !ok {
			return nil, apperrors.NewValidationError(apperrors.CodeUnknownStatus, "unknown account status")
		}
		filter.Status = &status
	}
	return s.customers.List(ctx, filter)
}

// ChangeCustomerStatus applies an administrative status transition to a
// customer account. The target value is validated against the closed enum
// before any write, and the transition table is enforced on the status read
// within this request.
func (s *StaffService) ChangeCustomerStatus(ctx context.Context, actor *auth.Principal, customerID, rawStatus string) (*domain.Customer, error) {
	status, ok := domain.ParseStatus(rawStatus)
	if !ok {
		return nil, apperrors.NewValidationError(apperrors.CodeUnknownStatus, "unknown account status")
	}

	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("customer")
		}
		return nil, err
	}
	if !domain.CanTransition(customer.Status, status) {
		return nil, apperrors.NewConflict("status transition not allowed")
	}

	if err := s.customers.UpdateStatus(ctx, customerID, status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("customer")
		}
		return nil, err
	}

	s.publishStatusChanged(ctx, actor, domain.PrincipalCustomer, customerID, customer.Status, status)
	customer.Status = status
	return customer, nil
}

// ChangeStaffStatus applies an administrative status transition to a staff
// account.
func (s *StaffService) ChangeStaffStatus(ctx context.Context, actor *auth.Principal, staffID, rawStatus string) (*domain.Staff, error) {
	status, ok := domain.ParseStatus(rawStatus)
	if !ok {
		return nil, apperrors.NewValidationError(apperrors.CodeUnknownStatus, "unknown account status")
	}

	staff, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff member")
		}
		return nil, err
	}
	if !domain.CanTransition(staff.Status, status) {
		return nil, apperrors.NewConflict("status transition not allowed")
	}

	if err := s.staff.UpdateStatus(ctx, staffID, status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff member")
		}
		return nil, err
	}

	s.publishStatusChanged(ctx, actor, domain.PrincipalStaff, staffID, staff.Status, status)
	staff.Status = status
	return staff, nil
}

func (s *StaffService) publishStatusChanged(ctx context.Context, actor *auth.Principal, targetType domain.PrincipalType, targetID string, from, to domain.AccountStatus) {
	if s.dispatcher == nil {
		return
	}
	eventActor := events.Actor{Type: domain.PrincipalStaff}
	if actor != nil && actor.Staff != nil {
		staffID := actor.Staff.ID
		eventActor.StaffID = &staffID
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:            uuid.NewString(),
		Type:          events.EventStatusChanged,
		PrincipalType: targetType,
		PrincipalID:   targetID,
		Actor:         eventActor,
		Timestamp:     time.Now(),
		Payload: events.StatusChangedPayload{
			OldStatus: from,
			NewStatus: to,
		},
	})
}
