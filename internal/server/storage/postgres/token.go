package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/typewriter/internal/models"
	"github.com/iudanet/typewriter/internal/server/storage"
)

// SaveResetToken stores a new password reset token
func (s *Storage) SaveResetToken(ctx context.Context, token *models.PasswordResetToken) error {
	query := `
		INSERT INTO password_reset_tokens (token, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.db.ExecContext(ctx, query, token.Token, token.UserID, token.ExpiresAt, token.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert reset token: %w", err)
	}

	return nil
}

// GetResetToken retrieves reset token by value
func (s *Storage) GetResetToken(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	query := `
		SELECT token, user_id, expires_at, created_at
		FROM password_reset_tokens
		WHERE token = $1
	`

	rt := &models.PasswordResetToken{}
	err := s.db.QueryRowContext(ctx, query, token).Scan(&rt.Token, &rt.UserID, &rt.ExpiresAt, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}

	return rt, nil
}

// DeleteResetToken deletes reset token by value
func (s *Storage) DeleteResetToken(ctx context.Context, token string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM password_reset_tokens WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("failed to delete reset token: %w", err)
	}

	return requireRow(result, storage.ErrTokenNotFound)
}

// DeleteExpiredResetTokens removes all expired reset tokens
func (s *Storage) DeleteExpiredResetTokens(ctx context.Context) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM password_reset_tokens WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired reset tokens: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}

// SaveVerificationToken stores a new email verification token
func (s *Storage) SaveVerificationToken(ctx context.Context, token *models.EmailVerificationToken) error {
	query := `
		INSERT INTO email_verification_tokens (token, user_id, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := s.db.ExecContext(ctx, query, token.Token, token.UserID, token.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert verification token: %w", err)
	}

	return nil
}

// GetVerificationToken retrieves verification token by value
func (s *Storage) GetVerificationToken(ctx context.Context, token string) (*models.EmailVerificationToken, error) {
	query := `
		SELECT token, user_id, created_at
		FROM email_verification_tokens
		WHERE token = $1
	`

	vt := &models.EmailVerificationToken{}
	err := s.db.QueryRowContext(ctx, query, token).Scan(&vt.Token, &vt.UserID, &vt.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get verification token: %w", err)
	}

	return vt, nil
}

// DeleteVerificationToken deletes verification token by value
func (s *Storage) DeleteVerificationToken(ctx context.Context, token string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM email_verification_tokens WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("failed to delete verification token: %w", err)
	}

	return requireRow(result, storage.ErrTokenNotFound)
}
