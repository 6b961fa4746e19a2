package domain

import "time"

// StaffRole enumerates back-office operator roles. ADMIN is reserved and is
// never assignable or listable through the ordinary staff-management surface.
type StaffRole string

const (
	RoleStaff StaffRole = "STAFF"
	RoleAdmin StaffRole = "ADMIN"
)

// ParseRole maps a raw string onto the closed role set.
func ParseRole(raw string) (StaffRole, bool) {
	switch StaffRole(raw) {
	case RoleStaff, RoleAdmin:
		return StaffRole(raw), true
	default:
		return "", false
	}
}

// Staff models a back-office operator. Every staff record carries exactly one
// role for the lifetime of the record.
type Staff struct {
	ID           string
	Username     string
	FullName     string
	PasswordHash string
	Role         StaffRole
	Status       AccountStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
