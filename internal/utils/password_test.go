package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret123", 4)
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "secret123", hash)

	assert.True(t, VerifyPassword(hash, "secret123"))
	assert.False(t, VerifyPassword(hash, "secret124"))
	assert.False(t, VerifyPassword(hash, ""))
}

func TestHashPasswordSalted(t *testing.T) {
	h1, err := HashPassword("secret123", 4)
	require.NoError(t, err)
	h2, err := HashPassword("secret123", 4)
	require.NoError(t, err)

	// bcrypt salts each hash; both still verify.
	assert.NotEqual(t, h1, h2)
	assert.True(t, VerifyPassword(h1, "secret123"))
	assert.True(t, VerifyPassword(h2, "secret123"))
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	assert.False(t, VerifyPassword("not-a-bcrypt-hash", "secret123"))
	assert.False(t, VerifyPassword("", "secret123"))
}
