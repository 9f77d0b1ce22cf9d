package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/typewriter/internal/models"
	"github.com/iudanet/typewriter/internal/server/storage"
)

func TestTokenStorage_ResetTokenLifecycle(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s)

	token := &models.PasswordResetToken{
		Token:     "reset-token-value",
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.SaveResetToken(ctx, token))

	retrieved, err := s.GetResetToken(ctx, "reset-token-value")
	require.NoError(t, err)
	assert.Equal(t, userID, retrieved.UserID)
	assert.WithinDuration(t, token.ExpiresAt, retrieved.ExpiresAt, time.Second)

	// Одноразовость обеспечивается удалением
	require.NoError(t, s.DeleteResetToken(ctx, "reset-token-value"))

	_, err = s.GetResetToken(ctx, "reset-token-value")
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)

	err = s.DeleteResetToken(ctx, "reset-token-value")
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)
}

func TestTokenStorage_DeleteExpiredResetTokens(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s)

	expired := &models.PasswordResetToken{
		Token:     "expired-token",
		UserID:    userID,
		ExpiresAt: time.Now().Add(-time.Minute),
		CreatedAt: time.Now().Add(-2 * time.Hour),
	}
	valid := &models.PasswordResetToken{
		Token:     "valid-token",
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.SaveResetToken(ctx, expired))
	require.NoError(t, s.SaveResetToken(ctx, valid))

	deleted, err := s.DeleteExpiredResetTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, err = s.GetResetToken(ctx, "expired-token")
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)

	_, err = s.GetResetToken(ctx, "valid-token")
	assert.NoError(t, err)
}

func TestTokenStorage_VerificationTokenLifecycle(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s)

	token := &models.EmailVerificationToken{
		Token:     "verify-token-value",
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.SaveVerificationToken(ctx, token))

	retrieved, err := s.GetVerificationToken(ctx, "verify-token-value")
	require.NoError(t, err)
	assert.Equal(t, userID, retrieved.UserID)

	require.NoError(t, s.DeleteVerificationToken(ctx, "verify-token-value"))

	_, err = s.GetVerificationToken(ctx, "verify-token-value")
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)
}
