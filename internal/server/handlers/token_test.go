package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken_RoundTrip(t *testing.T) {
	cfg := TokenConfig{
		Secret: []byte("test-secret"),
		TTL:    time.Hour,
	}

	token, expiresIn, err := GenerateToken(cfg, "user1", "writer@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, int64(3600), expiresIn)

	claims, err := ValidateToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, "user1", claims.UserID)
	assert.Equal(t, "writer@example.com", claims.Email)
	assert.Equal(t, "typewriter", claims.Issuer)
}

func TestValidateToken_Expired(t *testing.T) {
	cfg := TokenConfig{
		Secret: []byte("test-secret"),
		TTL:    -time.Minute,
	}

	token, _, err := GenerateToken(cfg, "user1", "writer@example.com")
	require.NoError(t, err)

	_, err = ValidateToken(cfg, token)
	assert.Error(t, err)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, _, err := GenerateToken(TokenConfig{
		Secret: []byte("secret-a"),
		TTL:    time.Hour,
	}, "user1", "writer@example.com")
	require.NoError(t, err)

	_, err = ValidateToken(TokenConfig{
		Secret: []byte("secret-b"),
		TTL:    time.Hour,
	}, token)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	cfg := TokenConfig{Secret: []byte("test-secret"), TTL: time.Hour}

	_, err := ValidateToken(cfg, "not.a.token")
	assert.Error(t, err)
}

func TestGenerateOpaqueToken(t *testing.T) {
	a, err := GenerateOpaqueToken()
	require.NoError(t, err)
	b, err := GenerateOpaqueToken()
	require.NoError(t, err)

	assert.Len(t, a, 64) // 32 bytes hex-encoded
	assert.NotEqual(t, a, b)
}
