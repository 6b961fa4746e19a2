package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"ACTIVE", "INACTIVE", "BLOCKED", "DELETED"} {
		status, ok := ParseStatus(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, AccountStatus(raw), status)
	}

	for _, raw := range []string{"", "active", "SUSPENDED", "deleted", "UNKNOWN"} {
		_, ok := ParseStatus(raw)
		assert.False(t, ok, raw)
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to AccountStatus
		want     bool
	}{
		{StatusActive, StatusInactive, true},
		{StatusActive, StatusBlocked, true},
		{StatusActive, StatusDeleted, true},
		{StatusInactive, StatusActive, true},
		{StatusInactive, StatusBlocked, true},
		{StatusBlocked, StatusActive, true},
		{StatusBlocked, StatusDeleted, true},
		{StatusInactive, StatusDeleted, true},

		{StatusDeleted, StatusActive, false},
		{StatusDeleted, StatusBlocked, false},
		{StatusDeleted, StatusDeleted, false},
		{StatusActive, StatusActive, false},
		{StatusBlocked, StatusBlocked, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestParseRole(t *testing.T) {
	role, ok := ParseRole("STAFF")
	assert.True(t, ok)
	assert.Equal(t, RoleStaff, role)

	role, ok = ParseRole("ADMIN")
	assert.True(t, ok)
	assert.Equal(t, RoleAdmin, role)

	_, ok = ParseRole("MANAGER")
	assert.False(t, ok)
}
