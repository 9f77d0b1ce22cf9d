package storage

import (
	"context"

	"github.com/iudanet/typewriter/internal/models"
)

// TokenStorage defines interface for password reset and email verification tokens
// Both token kinds are single-use: consumed tokens are deleted, not flagged
type TokenStorage interface {
	// SaveResetToken stores a new password reset token
	SaveResetToken(ctx context.Context, token *models.PasswordResetToken) error

	// GetResetToken retrieves reset token by value
	// Returns ErrTokenNotFound if token doesn't exist
	GetResetToken(ctx context.Context, token string) (*models.PasswordResetToken, error)

	// DeleteResetToken deletes reset token by value
	// Returns ErrTokenNotFound if token doesn't exist
	DeleteResetToken(ctx context.Context, token string) error

	// DeleteExpiredResetTokens removes all expired reset tokens
	// Returns number of deleted tokens
	DeleteExpiredResetTokens(ctx context.Context) (int, error)

	// SaveVerificationToken stores a new email verification token
	SaveVerificationToken(ctx context.Context, token *models.EmailVerificationToken) error

	// GetVerificationToken retrieves verification token by value
	// Returns ErrTokenNotFound if token doesn't exist
	GetVerificationToken(ctx context.Context, token string) (*models.EmailVerificationToken, error)

	// DeleteVerificationToken deletes verification token by value
	// Returns ErrTokenNotFound if token doesn't exist
	DeleteVerificationToken(ctx context.Context, token string) error
}
