package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/bank-backoffice/internal/domain"
	"github.com/spec-kit/bank-backoffice/internal/repository"
)

// ErrPrincipalNotFound covers both absent and soft-deleted principals; the
// two are indistinguishable to callers so a stale token never reveals that a
// deleted account once existed.
var ErrPrincipalNotFound = errors.New("principal not found")

// Principal represents the authenticated caller after resolution.
type Principal struct {
	Type     domain.PrincipalType
	Customer *domain.Customer
	Staff    *domain.Staff

	// Token metadata carried along for logout/revocation.
	TokenID        string
	TokenExpiresAt time.Time
}

// ID returns the principal's record ID.
func (p *Principal) ID() string {
	switch p.Type {
	case domain.PrincipalCustomer:
		return p.Customer.ID
	case domain.PrincipalStaff:
		return p.Staff.ID
	}
	return ""
}

// Status returns the account lifecycle status.
func (p *Principal) Status() domain.AccountStatus {
	switch p.Type {
	case domain.PrincipalCustomer:
		return p.Customer.Status
	case domain.PrincipalStaff:
		return p.Staff.Status
	}
	return ""
}

// Role returns the staff role; false for customer principals.
func (p *Principal) Role() (domain.StaffRole, bool) {
	if p.Type == domain.PrincipalStaff && p.Staff != nil {
		return p.Staff.Role, true
	}
	return "", false
}

// PrincipalResolver loads the concrete principal backing a verified token.
type PrincipalResolver struct {
	customers repository.CustomerRepository
	staff     repository.StaffRepository
}

// NewPrincipalResolver constructs a resolver.
func NewPrincipalResolver(customers repository.CustomerRepository, staff repository.StaffRepository) *PrincipalResolver {
	return &PrincipalResolver{customers: customers, staff: staff}
}

// Resolve dispatches on principal type and checks the record still exists.
// Staff resolution always carries the role needed by route-level checks.
func (r *PrincipalResolver) Resolve(ctx context.Context, principalType domain.PrincipalType, id string) (*Principal, error) {
	switch principalType {
	case domain.PrincipalCustomer:
		customer, err := r.customers.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrPrincipalNotFound
			}
			return nil, err
		}
		if customer.Status == domain.StatusDeleted {
			return nil, ErrPrincipalNotFound
		}
		return &Principal{Type: domain.PrincipalCustomer, Customer: customer}, nil
	case domain.PrincipalStaff:
		staff, err := r.staff.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrPrincipalNotFound
			}
			return nil, err
		}
		if staff.Status == domain.StatusDeleted {
			return nil, ErrPrincipalNotFound
		}
		return &Principal{Type: domain.PrincipalStaff, Staff: staff}, nil
	default:
		return nil, ErrPrincipalNotFound
	}
}
