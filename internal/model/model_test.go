package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusEnums(t *testing.T) {
	assert.Equal(t, []string{"ACTIVE", "INACTIVE"}, UserStatuses)
	assert.Equal(t, []string{"ACTIVE", "ARCHIVED"}, CustomerStatuses)
	// Contacts carry the customer enum, under their own name.
	assert.Equal(t, CustomerStatuses, ContactStatuses)
}

func TestUserJSONHidesPasswordHash(t *testing.T) {
	b, err := json.Marshal(User{ID: 1, Name: "Alice", PasswordHash: "secret-hash"})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret-hash")
	assert.NotContains(t, string(b), "password")
}
