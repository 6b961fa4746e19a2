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

// AuthService coordinates login, logout and password flows.
type AuthService struct {
	customers   repository.CustomerRepository
	staff       repository.StaffRepository
	resets      repository.PasswordResetRepository
	tokenMgr    *auth.TokenManager
	revocations *auth.RevocationList
	dispatcher  events.Dispatcher
	bcryptCost  int
	resetTTL    time.Duration
}

// AuthDependencies encapsulates collaborator requirements for auth service.
type AuthDependencies struct {
	CustomerRepo      repository.CustomerRepository
	StaffRepo         repository.StaffRepository
	PasswordResetRepo repository.PasswordResetRepository
	Revocations       *auth.RevocationList
	Dispatcher        events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		customers:   deps.CustomerRepo,
		staff:       deps.StaffRepo,
		resets:      deps.PasswordResetRepo,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLHours),
		revocations: deps.Revocations,
		dispatcher:  deps.Dispatcher,
		bcryptCost:  cfg.Auth.BcryptCost,
		resetTTL:    time.Duration(cfg.Auth.PasswordResetTTLMinutes) * time.Minute,
	}
}

// LoginCustomer authenticates a customer by username or email. Every failure
// path returns the same generic credential error; a deleted account behaves
// exactly like one that never existed.
func (s *AuthService) LoginCustomer(ctx context.Context, usernameOrEmail, password string) (*domain.Customer, string, time.Time, error) {
	identifier := strings.ToLower(strings.TrimSpace(usernameOrEmail))
	customer, err := s.customers.GetByCredential(ctx, identifier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
		}
		return nil, "", time.Time{}, err
	}
	if customer.Status == domain.StatusDeleted {
		return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
	}
	if !auth.VerifyPassword(customer.PasswordHash, password) {
		return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
	}
	token, exp, err := s.tokenMgr.GenerateToken(customer.ID, domain.PrincipalCustomer)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return customer, token, exp, nil
}

// LoginStaff authenticates a staff member by username.
func (s *AuthService) LoginStaff(ctx context.Context, username, password string) (*domain.Staff, string, time.Time, error) {
	identifier := strings.ToLower(strings.TrimSpace(username))
	staff, err := s.staff.GetByUsername(ctx, identifier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
		}
		return nil, "", time.Time{}, err
	}
	if staff.Status == domain.StatusDeleted {
		return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
	}
	if !auth.VerifyPassword(staff.PasswordHash, password) {
		return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
	}
	token, exp, err := s.tokenMgr.GenerateToken(staff.ID, domain.PrincipalStaff)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return staff, token, exp, nil
}

// Logout denylists the presenting token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, principal *auth.Principal) error {
	return s.revocations.Revoke(ctx, principal.TokenID, principal.TokenExpiresAt)
}

// ChangePassword verifies the current password, enforces the password policy
// on the new one, and revokes the presenting token.
func (s *AuthService) ChangePassword(ctx context.Context, principal *auth.Principal, currentPassword, newPassword string) error {
	if err := registration.ValidatePassword(newPassword); err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	switch principal.Type {
	case domain.PrincipalCustomer:
		customer, err := s.customers.GetByID(ctx, principal.Customer.ID)
		if err != nil {
			return err
		}
		if !auth.VerifyPassword(customer.PasswordHash, currentPassword) {
			return apperrors.NewInvalidCredentials()
		}
		customer.PasswordHash = hash
		if err := s.customers.Update(ctx, customer); err != nil {
			return err
		}
	case domain.PrincipalStaff:
		staff, err := s.staff.GetByID(ctx, principal.Staff.ID)
		if err != nil {
			return err
		}
		if !auth.VerifyPassword(staff.PasswordHash, currentPassword) {
			return apperrors.NewInvalidCredentials()
		}
		staff.PasswordHash = hash
		if err := s.staff.Update(ctx, staff); err != nil {
			return err
		}
	default:
		return apperrors.NewUnauthorized(apperrors.CodePrincipalGone, "unknown principal type")
	}

	if err := s.revocations.Revoke(ctx, principal.TokenID, principal.TokenExpiresAt); err != nil {
		return err
	}
	s.publishPasswordChanged(ctx, principal.Type, principal.ID(), "change")
	return nil
}

// RequestPasswordReset persists a one-shot reset token for a customer
// (username or email) or a staff member (username).
func (s *AuthService) RequestPasswordReset(ctx context.Context, identifier string) (*repository.PasswordResetToken, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))

	principalType := domain.PrincipalCustomer
	principalID := ""

	if customer, err := s.customers.GetByCredential(ctx, identifier); err == nil {
		if customer.Status == domain.StatusDeleted {
			return nil, apperrors.NewNotFound("account")
		}
		principalID = customer.ID
	} else if errors.Is(err, pgx.ErrNoRows) {
		staff, staffErr := s.staff.GetByUsername(ctx, identifier)
		if staffErr != nil {
			if errors.Is(staffErr, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("account")
			}
			return nil, staffErr
		}
		if staff.Status == domain.StatusDeleted {
			return nil, apperrors.NewNotFound("account")
		}
		principalType = domain.PrincipalStaff
		principalID = staff.ID
	} else {
		return nil, err
	}

	token := &repository.PasswordResetToken{
		PrincipalType: principalType,
		PrincipalID:   principalID,
		Token:         uuid.NewString(),
		ExpiresAt:     time.Now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

// ConfirmPasswordReset validates the reset token and updates the password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword string) error {
	if err := registration.ValidatePassword(newPassword); err != nil {
		return err
	}

	token, err := s.resets.GetByToken(ctx, tokenStr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError(apperrors.CodeInvalidToken, "reset token invalid")
		}
		return err
	}
	if token.UsedAt != nil || time.Now().After(token.ExpiresAt) {
		return apperrors.NewValidationError(apperrors.CodeInvalidToken, "reset token expired or already used")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	switch token.PrincipalType {
	case domain.PrincipalCustomer:
		customer, err := s.customers.GetByID(ctx, token.PrincipalID)
		if err != nil {
			return err
		}
		customer.PasswordHash = hash
		if err := s.customers.Update(ctx, customer); err != nil {
			return err
		}
	case domain.PrincipalStaff:
		staff, err := s.staff.GetByID(ctx, token.PrincipalID)
		if err != nil {
			return err
		}
		staff.PasswordHash = hash
		if err := s.staff.Update(ctx, staff); err != nil {
			return err
		}
	default:
		return apperrors.NewValidationError(apperrors.CodeInvalidToken, "reset token invalid")
	}

	if err := s.resets.MarkUsed(ctx, token.ID); err != nil {
		return err
	}
	s.publishPasswordChanged(ctx, token.PrincipalType, token.PrincipalID, "reset")
	return nil
}

func (s *AuthService) publishPasswordChanged(ctx context.Context, principalType domain.PrincipalType, principalID, via string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:            uuid.NewString(),
		Type:          events.EventPasswordChanged,
		PrincipalType: principalType,
		PrincipalID:   principalID,
		Actor:         events.Actor{Type: principalType},
		Timestamp:     time.Now(),
		Payload:       events.PasswordChangedPayload{Via: via},
	})
}

// TokenManager exposes the underlying token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
