package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/bank-backoffice/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 1)

	token, exp, err := tm.GenerateToken("cust-1", domain.PrincipalCustomer)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "cust-1", claims.PrincipalID)
	assert.Equal(t, domain.PrincipalCustomer, claims.PrincipalType)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenExpired(t *testing.T) {
	tm := NewTokenManager("secret", 1).WithClock(func() time.Time {
		return time.Now().Add(-2 * time.Hour)
	})

	token, _, err := tm.GenerateToken("staff-1", domain.PrincipalStaff)
	require.NoError(t, err)

	verifier := NewTokenManager("secret", 1)
	_, err = verifier.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenWrongSecret(t *testing.T) {
	tm := NewTokenManager("secret", 1)
	token, _, err := tm.GenerateToken("cust-1", domain.PrincipalCustomer)
	require.NoError(t, err)

	other := NewTokenManager("different-secret", 1)
	_, err = other.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestTokenGarbage(t *testing.T) {
	tm := NewTokenManager("secret", 1)
	_, err := tm.ParseToken("not.a.token")
	assert.ErrorIs(t, err, ErrTokenMalformed)

	_, err = tm.ParseToken("")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}
