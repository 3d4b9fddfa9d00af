package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, CheckPasswordHash("s3cret!", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestManagerRoundTrip(t *testing.T) {
	m, err := NewManager("test-secret", "1h")
	require.NoError(t, err)

	token, err := m.GenerateJWT("u1", "a@example.com", "manager")
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "manager", claims.Role)

	other, err := NewManager("other-secret", "")
	require.NoError(t, err)
	_, err = other.Parse(token)
	assert.Error(t, err)
}

func TestManagerRejectsExpiredAndBadConfig(t *testing.T) {
	m, err := NewManager("test-secret", "-1m")
	require.NoError(t, err)
	token, err := m.GenerateJWT("u1", "a@example.com", "staff")
	require.NoError(t, err)
	_, err = m.Parse(token)
	assert.Error(t, err)

	_, err = NewManager("", "1h")
	assert.Error(t, err)
	_, err = NewManager("x", "tomorrow")
	assert.Error(t, err)
}
