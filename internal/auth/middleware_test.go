package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/bank-backoffice/internal/domain"
	"github.com/spec-kit/bank-backoffice/internal/repository"
	apperrors "github.com/spec-kit/bank-backoffice/pkg/util"
)

type stubCustomerRepo struct {
	customers map[string]*domain.Customer
}

func (r *stubCustomerRepo) CreateWithIdentity(_ context.Context, customer *domain.Customer, _ *domain.IdentityDocument) error {
	r.customers[customer.ID] = customer
	return nil
}

func (r *stubCustomerRepo) Update(_ context.Context, customer *domain.Customer) error {
	r.customers[customer.ID] = customer
	return nil
}

func (r *stubCustomerRepo) UpdateStatus(_ context.Context, id string, status domain.AccountStatus) error {
	customer, ok := r.customers[id]
	if !ok {
		return pgx.ErrNoRows
	}
	customer.Status = status
	return nil
}

func (r *stubCustomerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	customer, ok := r.customers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *customer
	return &clone, nil
}

func (r *stubCustomerRepo) GetByCredential(_ context.Context, usernameOrEmail string) (*domain.Customer, error) {
	for _, customer := range r.customers {
		if customer.Username == usernameOrEmail || customer.Email == usernameOrEmail {
			clone := *customer
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubCustomerRepo) GetIdentity(_ context.Context, _ string) (*domain.IdentityDocument, error) {
	return nil, pgx.ErrNoRows
}

func (r *stubCustomerRepo) List(_ context.Context, _ repository.CustomerFilter) ([]domain.Customer, error) {
	return nil, nil
}

type stubStaffRepo struct {
	members map[string]*domain.Staff
}

func (r *stubStaffRepo) Create(_ context.Context, staff *domain.Staff) error {
	r.members[staff.ID] = staff
	return nil
}

func (r *stubStaffRepo) Update(_ context.Context, staff *domain.Staff) error {
	r.members[staff.ID] = staff
	return nil
}

func (r *stubStaffRepo) UpdateStatus(_ context.Context, id string, status domain.AccountStatus) error {
	staff, ok := r.members[id]
	if !ok {
		return pgx.ErrNoRows
	}
	staff.Status = status
	return nil
}

func (r *stubStaffRepo) GetByID(_ context.Context, id string) (*domain.Staff, error) {
	staff, ok := r.members[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *staff
	return &clone, nil
}

func (r *stubStaffRepo) GetByUsername(_ context.Context, username string) (*domain.Staff, error) {
	for _, staff := range r.members {
		if staff.Username == username {
			clone := *staff
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubStaffRepo) List(_ context.Context, _ repository.StaffFilter) ([]domain.Staff, error) {
	return nil, nil
}

type gateFixture struct {
	app       *fiber.App
	tokens    *TokenManager
	customers *stubCustomerRepo
	staff     *stubStaffRepo
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()

	customers := &stubCustomerRepo{customers: map[string]*domain.Customer{
		"cust-1": {ID: "cust-1", Username: "alice", Email: "alice@example.com", Status: domain.StatusActive},
		"cust-2": {ID: "cust-2", Username: "bob", Email: "bob@example.com", Status: domain.StatusBlocked},
		"cust-3": {ID: "cust-3", Username: "carol", Email: "carol@example.com", Status: domain.StatusInactive},
	}}
	staff := &stubStaffRepo{members: map[string]*domain.Staff{
		"staff-1": {ID: "staff-1", Username: "teller", Role: domain.RoleStaff, Status: domain.StatusActive},
		"staff-2": {ID: "staff-2", Username: "boss", Role: domain.RoleAdmin, Status: domain.StatusActive},
		"staff-3": {ID: "staff-3", Username: "ghost", Role: domain.RoleStaff, Status: domain.StatusDeleted},
	}}

	tokens := NewTokenManager("test-secret", 1)
	gate := NewAccessGate(tokens, NewPrincipalResolver(customers, staff), NewRevocationList(nil))

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{
				"status":  "error",
				"code":    domainErr.Code,
				"message": domainErr.Message,
			})
		},
	})
	ok := func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) }
	app.Get("/protected", gate.Handle, ok)
	app.Get("/staff-only", gate.Handle, RequireStaffRole(domain.RoleStaff, domain.RoleAdmin), ok)
	app.Get("/admin-only", gate.Handle, RequireStaffRole(domain.RoleAdmin), ok)

	return &gateFixture{app: app, tokens: tokens, customers: customers, staff: staff}
}

func (f *gateFixture) request(t *testing.T, path, bearer string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var envelope struct {
		Code string `json:"code"`
	}
	_ = json.Unmarshal(body, &envelope)
	return resp.StatusCode, envelope.Code
}

func TestAccessGate_MissingCredential(t *testing.T) {
	f := newGateFixture(t)

	status, code := f.request(t, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperrors.CodeMissingCredential, code)
}

func TestAccessGate_MalformedHeader(t *testing.T) {
	f := newGateFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAccessGate_InvalidToken(t *testing.T) {
	f := newGateFixture(t)

	status, code := f.request(t, "/protected", "garbage.token.value")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperrors.CodeInvalidToken, code)
}

func TestAccessGate_ExpiredToken(t *testing.T) {
	f := newGateFixture(t)

	expired := NewTokenManager("test-secret", 1).WithClock(func() time.Time {
		return time.Now().Add(-2 * time.Hour)
	})
	token, _, err := expired.GenerateToken("cust-1", domain.PrincipalCustomer)
	require.NoError(t, err)

	status, code := f.request(t, "/protected", token)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperrors.CodeInvalidToken, code)
}

func TestAccessGate_ActivePrincipalPasses(t *testing.T) {
	f := newGateFixture(t)

	token, _, err := f.tokens.GenerateToken("cust-1", domain.PrincipalCustomer)
	require.NoError(t, err)

	status, _ := f.request(t, "/protected", token)
	assert.Equal(t, http.StatusOK, status)
}

func TestAccessGate_BlockedAndInactive(t *testing.T) {
	f := newGateFixture(t)

	blocked, _, err := f.tokens.GenerateToken("cust-2", domain.PrincipalCustomer)
	require.NoError(t, err)
	status, code := f.request(t, "/protected", blocked)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, apperrors.CodeAccountBlocked, code)

	inactive, _, err := f.tokens.GenerateToken("cust-3", domain.PrincipalCustomer)
	require.NoError(t, err)
	status, code = f.request(t, "/protected", inactive)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, apperrors.CodeAccountInactive, code)
}

// A valid token whose staff account was since deleted resolves as gone: 401,
// not 403, indistinguishable from an account that never existed.
func TestAccessGate_DeletedPrincipalGone(t *testing.T) {
	f := newGateFixture(t)

	token, _, err := f.tokens.GenerateToken("staff-3", domain.PrincipalStaff)
	require.NoError(t, err)

	status, code := f.request(t, "/protected", token)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperrors.CodePrincipalGone, code)
}

func TestAccessGate_UnknownPrincipalGone(t *testing.T) {
	f := newGateFixture(t)

	token, _, err := f.tokens.GenerateToken("no-such-id", domain.PrincipalCustomer)
	require.NoError(t, err)

	status, code := f.request(t, "/protected", token)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperrors.CodePrincipalGone, code)
}

func TestAccessGate_RoleRestriction(t *testing.T) {
	f := newGateFixture(t)

	staffToken, _, err := f.tokens.GenerateToken("staff-1", domain.PrincipalStaff)
	require.NoError(t, err)
	adminToken, _, err := f.tokens.GenerateToken("staff-2", domain.PrincipalStaff)
	require.NoError(t, err)
	customerToken, _, err := f.tokens.GenerateToken("cust-1", domain.PrincipalCustomer)
	require.NoError(t, err)

	status, _ := f.request(t, "/staff-only", staffToken)
	assert.Equal(t, http.StatusOK, status)

	// staff role on an admin-only route fails the role-set check
	status, code := f.request(t, "/admin-only", staffToken)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, apperrors.CodeForbidden, code)

	status, _ = f.request(t, "/admin-only", adminToken)
	assert.Equal(t, http.StatusOK, status)

	status, code = f.request(t, "/staff-only", customerToken)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, apperrors.CodeForbidden, code)
}

// A blocked admin must fail the status check before any role check runs.
func TestAccessGate_StatusCheckedBeforeRole(t *testing.T) {
	f := newGateFixture(t)
	f.staff.members["staff-2"].Status = domain.StatusBlocked

	token, _, err := f.tokens.GenerateToken("staff-2", domain.PrincipalStaff)
	require.NoError(t, err)

	status, code := f.request(t, "/admin-only", token)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, apperrors.CodeAccountBlocked, code)
}
