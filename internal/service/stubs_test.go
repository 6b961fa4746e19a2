package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/bank-backoffice/internal/config"
	"github.com/spec-kit/bank-backoffice/internal/domain"
	"github.com/spec-kit/bank-backoffice/internal/repository"
)

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret",
			AccessTokenTTLHours:     1,
			PasswordResetTTLMinutes: 30,
			BcryptCost:              bcrypt.MinCost,
		},
		Identity: config.IdentityConfig{ImageQuality: 80},
	}
}

// memCustomerRepo is a race-safe in-memory CustomerRepository enforcing the
// same uniqueness constraints as the schema.
type memCustomerRepo struct {
	mu         sync.Mutex
	seq        int
	customers  map[string]*domain.Customer
	identities map[string]*domain.IdentityDocument
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{
		customers:  make(map[string]*domain.Customer),
		identities: make(map[string]*domain.IdentityDocument),
	}
}

func (r *memCustomerRepo) CreateWithIdentity(_ context.Context, customer *domain.Customer, identity *domain.IdentityDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.customers {
		if existing.Username == customer.Username || existing.Email == customer.Email {
			return repository.ErrDuplicate
		}
	}

	r.seq++
	customer.ID = fmt.Sprintf("cust-%d", r.seq)
	customer.CreatedAt = time.Now()
	customer.UpdatedAt = customer.CreatedAt
	identity.CustomerID = customer.ID
	identity.ID = fmt.Sprintf("ident-%d", r.seq)
	identity.CreatedAt = customer.CreatedAt

	customerClone := *customer
	identityClone := *identity
	r.customers[customer.ID] = &customerClone
	r.identities[customer.ID] = &identityClone
	return nil
}

func (r *memCustomerRepo) Update(_ context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[customer.ID]; !ok {
		return pgx.ErrNoRows
	}
	for id, existing := range r.customers {
		if id != customer.ID && (existing.Username == customer.Username || existing.Email == customer.Email) {
			return repository.ErrDuplicate
		}
	}
	clone := *customer
	r.customers[customer.ID] = &clone
	return nil
}

func (r *memCustomerRepo) UpdateStatus(_ context.Context, id string, status domain.AccountStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer, ok := r.customers[id]
	if !ok {
		return pgx.ErrNoRows
	}
	customer.Status = status
	return nil
}

func (r *memCustomerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer, ok := r.customers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *customer
	return &clone, nil
}

func (r *memCustomerRepo) GetByCredential(_ context.Context, usernameOrEmail string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, customer := range r.customers {
		if customer.Username == usernameOrEmail || customer.Email == usernameOrEmail {
			clone := *customer
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memCustomerRepo) GetIdentity(_ context.Context, customerID string) (*domain.IdentityDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	identity, ok := r.identities[customerID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *identity
	return &clone, nil
}

func (r *memCustomerRepo) List(_ context.Context, filter repository.CustomerFilter) ([]domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Customer
	for _, customer := range r.customers {
		if filter.Status != nil && customer.Status != *filter.Status {
			continue
		}
		result = append(result, *customer)
	}
	return result, nil
}

// memStaffRepo is an in-memory StaffRepository.
type memStaffRepo struct {
	mu      sync.Mutex
	seq     int
	members map[string]*domain.Staff
}

func newMemStaffRepo() *memStaffRepo {
	return &memStaffRepo{members: make(map[string]*domain.Staff)}
}

func (r *memStaffRepo) Create(_ context.Context, staff *domain.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.members {
		if existing.Username == staff.Username {
			return repository.ErrDuplicate
		}
	}
	r.seq++
	staff.ID = fmt.Sprintf("staff-%d", r.seq)
	staff.CreatedAt = time.Now()
	staff.UpdatedAt = staff.CreatedAt
	clone := *staff
	r.members[staff.ID] = &clone
	return nil
}

func (r *memStaffRepo) Update(_ context.Context, staff *domain.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[staff.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *staff
	r.members[staff.ID] = &clone
	return nil
}

func (r *memStaffRepo) UpdateStatus(_ context.Context, id string, status domain.AccountStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	staff, ok := r.members[id]
	if !ok {
		return pgx.ErrNoRows
	}
	staff.Status = status
	return nil
}

func (r *memStaffRepo) GetByID(_ context.Context, id string) (*domain.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	staff, ok := r.members[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *staff
	return &clone, nil
}

func (r *memStaffRepo) GetByUsername(_ context.Context, username string) (*domain.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, staff := range r.members {
		if staff.Username == username {
			clone := *staff
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memStaffRepo) List(_ context.Context, filter repository.StaffFilter) ([]domain.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Staff
	for _, staff := range r.members {
		if filter.Role != nil && staff.Role != *filter.Role {
			continue
		}
		if filter.Status != nil && staff.Status != *filter.Status {
			continue
		}
		if filter.ExcludeAdmin && staff.Role == domain.RoleAdmin {
			continue
		}
		result = append(result, *staff)
	}
	return result, nil
}

// memResetRepo is an in-memory PasswordResetRepository.
type memResetRepo struct {
	mu     sync.Mutex
	seq    int
	tokens map[string]*repository.PasswordResetToken
}

func newMemResetRepo() *memResetRepo {
	return &memResetRepo{tokens: make(map[string]*repository.PasswordResetToken)}
}

func (r *memResetRepo) Create(_ context.Context, token *repository.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	token.ID = fmt.Sprintf("reset-%d", r.seq)
	token.CreatedAt = time.Now()
	clone := *token
	r.tokens[token.Token] = &clone
	return nil
}

func (r *memResetRepo) GetByToken(_ context.Context, tokenStr string) (*repository.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[tokenStr]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *token
	return &clone, nil
}

func (r *memResetRepo) MarkUsed(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, token := range r.tokens {
		if token.ID == id {
			token.UsedAt = &now
			return nil
		}
	}
	return nil
}
