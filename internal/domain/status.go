package domain

// AccountStatus represents lifecycle states shared by customers and staff.
type AccountStatus string

const (
	StatusActive   AccountStatus = "ACTIVE"
	StatusInactive AccountStatus = "INACTIVE"
	StatusBlocked  AccountStatus = "BLOCKED"
	StatusDeleted  AccountStatus = "DELETED"
)

// ParseStatus maps a raw string onto the closed status set.
func ParseStatus(raw string) (AccountStatus, bool) {
	switch AccountStatus(raw) {
	case StatusActive, StatusInactive, StatusBlocked, StatusDeleted:
		return AccountStatus(raw), true
	default:
		return "", false
	}
}

// CanTransition reports whether an administrative status change is allowed.
// ACTIVE, INACTIVE and BLOCKED are mutually reversible; every non-deleted
// status may move to DELETED; DELETED is terminal.
func CanTransition(from, to AccountStatus) bool {
	if from == StatusDeleted {
		return false
	}
	if from == to {
		return false
	}
	switch to {
	case StatusActive, StatusInactive, StatusBlocked, StatusDeleted:
		return true
	default:
		return false
	}
}
