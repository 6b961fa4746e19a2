package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/bank-backoffice/internal/domain"
)

// CustomerRepository defines persistence access for customers and their
// identity documents.
type CustomerRepository interface {
	CreateWithIdentity(ctx context.Context, customer *domain.Customer, identity *domain.IdentityDocument) error
	Update(ctx context.Context, customer *domain.Customer) error
	UpdateStatus(ctx context.Context, id string, status domain.AccountStatus) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	GetByCredential(ctx context.Context, usernameOrEmail string) (*domain.Customer, error)
	GetIdentity(ctx context.Context, customerID string) (*domain.IdentityDocument, error)
	List(ctx context.Context, filter CustomerFilter) ([]domain.Customer, error)
}

// CustomerFilter defines query params for customer listing.
type CustomerFilter struct {
	Status *domain.AccountStatus
	Limit  int
	Offset int
}

type customerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository returns a Postgres-backed implementation.
func NewCustomerRepository(pool *pgxpool.Pool) CustomerRepository {
	return &customerRepository{pool: pool}
}

// CreateWithIdentity inserts the customer and its identity document inside
// one transaction; either both rows exist afterwards or neither does.
func (r *customerRepository) CreateWithIdentity(ctx context.Context, customer *domain.Customer, identity *domain.IdentityDocument) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return mapStoreError(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const customerQuery = `
        INSERT INTO customers (username, email, full_name, date_of_birth, password_hash, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`

	if err := tx.QueryRow(ctx, customerQuery,
		customer.Username,
		customer.Email,
		customer.FullName,
		customer.DateOfBirth,
		customer.PasswordHash,
		customer.Status,
	).Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt); err != nil {
		return mapStoreError(err)
	}

	const identityQuery = `
        INSERT INTO identity_documents (customer_id, identity_number, registration_date, front_image, back_image)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`

	identity.CustomerID = customer.ID
	if err := tx.QueryRow(ctx, identityQuery,
		identity.CustomerID,
		identity.IdentityNumber,
		identity.RegistrationDate,
		identity.FrontImage,
		identity.BackImage,
	).Scan(&identity.ID, &identity.CreatedAt); err != nil {
		return mapStoreError(err)
	}

	return mapStoreError(tx.Commit(ctx))
}

func (r *customerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	const query = `
        UPDATE customers SET username=$1, email=$2, full_name=$3, date_of_birth=$4, password_hash=$5, status=$6, updated_at=NOW()
        WHERE id=$7`

	cmd, err := r.pool.Exec(ctx, query,
		customer.Username,
		customer.Email,
		customer.FullName,
		customer.DateOfBirth,
		customer.PasswordHash,
		customer.Status,
		customer.ID,
	)
	if err != nil {
		return mapStoreError(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *customerRepository) UpdateStatus(ctx context.Context, id string, status domain.AccountStatus) error {
	const query = `
        UPDATE customers SET status=$1, updated_at=NOW()
        WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return mapStoreError(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const customerColumns = `id, username, email, full_name, date_of_birth, password_hash, status, created_at, updated_at`

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var customer domain.Customer
	if err := row.Scan(
		&customer.ID,
		&customer.Username,
		&customer.Email,
		&customer.FullName,
		&customer.DateOfBirth,
		&customer.PasswordHash,
		&customer.Status,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	); err != nil {
		return nil, mapStoreError(err)
	}
	return &customer, nil
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id=$1`
	return scanCustomer(r.pool.QueryRow(ctx, query, id))
}

// GetByCredential looks a customer up by username or email; both columns are
// stored case-folded.
func (r *customerRepository) GetByCredential(ctx context.Context, usernameOrEmail string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE username=$1 OR email=$1`
	return scanCustomer(r.pool.QueryRow(ctx, query, usernameOrEmail))
}

func (r *customerRepository) GetIdentity(ctx context.Context, customerID string) (*domain.IdentityDocument, error) {
	const query = `
        SELECT id, customer_id, identity_number, registration_date, front_image, back_image, created_at
        FROM identity_documents WHERE customer_id=$1`

	var identity domain.IdentityDocument
	if err := r.pool.QueryRow(ctx, query, customerID).Scan(
		&identity.ID,
		&identity.CustomerID,
		&identity.IdentityNumber,
		&identity.RegistrationDate,
		&identity.FrontImage,
		&identity.BackImage,
		&identity.CreatedAt,
	); err != nil {
		return nil, mapStoreError(err)
	}
	return &identity, nil
}

func (r *customerRepository) List(ctx context.Context, filter CustomerFilter) ([]domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers`
	args := []any{}
	clauses := []string{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	query += " ORDER BY created_at DESC"
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapStoreError(err)
	}
	defer rows.Close()

	var result []domain.Customer
	for rows.Next() {
		var customer domain.Customer
		if err := rows.Scan(
			&customer.ID,
			&customer.Username,
			&customer.Email,
			&customer.FullName,
			&customer.DateOfBirth,
			&customer.PasswordHash,
			&customer.Status,
			&customer.CreatedAt,
			&customer.UpdatedAt,
		); err != nil {
			return nil, mapStoreError(err)
		}
		result = append(result, customer)
	}
	return result, mapStoreError(rows.Err())
}
