package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager() *Manager {
	return NewManager("test-secret", 15*time.Minute, 24*time.Hour)
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	m := testManager()

	token, err := m.GenerateAccessToken("user-1", "asha@example.com", "USER")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "asha@example.com", claims.Email)
	assert.Equal(t, "USER", claims.Role)
	assert.Equal(t, "access", claims.Type)
}

func TestValidateAccessTokenRejectsRefreshToken(t *testing.T) {
	m := testManager()

	token, err := m.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	// A refresh token carries a valid signature but must not pass as an
	// access token.
	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "refresh", claims.Type)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := testManager().GenerateAccessToken("user-1", "asha@example.com", "USER")
	require.NoError(t, err)

	other := NewManager("different-secret", 15*time.Minute, 24*time.Hour)
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute, 24*time.Hour)

	token, err := m.GenerateAccessToken("user-1", "asha@example.com", "USER")
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := testManager().ValidateToken("not.a.token")
	assert.Error(t, err)
}
