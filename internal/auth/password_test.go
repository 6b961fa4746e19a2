package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashVerifyRoundTrip(t *testing.T) {
	hash, err := HashPassword("Correct1!", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "Correct1!", hash)

	assert.True(t, VerifyPassword(hash, "Correct1!"))
	assert.False(t, VerifyPassword(hash, "Wr0ng!pass"))
	assert.False(t, VerifyPassword(hash, ""))
}

func TestHashIsSalted(t *testing.T) {
	first, err := HashPassword("Correct1!", bcrypt.MinCost)
	require.NoError(t, err)
	second, err := HashPassword("Correct1!", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, VerifyPassword(first, "Correct1!"))
	assert.True(t, VerifyPassword(second, "Correct1!"))
}

func TestVerifyMalformedDigest(t *testing.T) {
	assert.False(t, VerifyPassword("not-a-bcrypt-digest", "Correct1!"))
	assert.False(t, VerifyPassword("", "Correct1!"))
}
