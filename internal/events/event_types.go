package events

import (
	"time"

	"github.com/spec-kit/bank-backoffice/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCustomerRegistered EventType = "customer_registered"
	EventStatusChanged      EventType = "status_changed"
	EventPasswordChanged    EventType = "password_changed"
)

// Actor encapsulates who triggered the event; nil IDs mean the system itself
// (e.g. self-registration).
type Actor struct {
	Type       domain.PrincipalType `json:"type"`
	CustomerID *string              `json:"customer_id,omitempty"`
	StaffID    *string              `json:"staff_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID            string               `json:"id"`
	Type          EventType            `json:"type"`
	PrincipalType domain.PrincipalType `json:"principal_type"`
	PrincipalID   string               `json:"principal_id"`
	Actor         Actor                `json:"actor"`
	Timestamp     time.Time            `json:"timestamp"`
	Payload       interface{}          `json:"payload"`
}

// CustomerRegisteredPayload payload.
type CustomerRegisteredPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// StatusChangedPayload payload.
type StatusChangedPayload struct {
	OldStatus domain.AccountStatus `json:"old_status"`
	NewStatus domain.AccountStatus `json:"new_status"`
}

// PasswordChangedPayload payload.
type PasswordChangedPayload struct {
	Via string `json:"via"` // "change" or "reset"
}
