package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager("test-secret")

	token, err := m.GenerateToken("user-1", "Alice", "alice@example.com", "regular", time.Hour)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "Alice", claims.Name)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "regular", claims.Role)
}

func TestManager_RejectsWrongSecret(t *testing.T) {
	token, err := NewManager("secret-a").GenerateToken("user-1", "Alice", "alice@example.com", "regular", time.Hour)
	require.NoError(t, err)

	_, err = NewManager("secret-b").ValidateToken(token)
	assert.Error(t, err)
}

func TestManager_RejectsExpiredToken(t *testing.T) {
	m := NewManager("test-secret")

	token, err := m.GenerateToken("user-1", "Alice", "alice@example.com", "regular", -time.Minute)
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.Error(t, err)
}

func TestManager_RejectsGarbage(t *testing.T) {
	_, err := NewManager("test-secret").ValidateToken("not-a-token")
	assert.Error(t, err)
}
