package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/typewriter/internal/models"
	"github.com/iudanet/typewriter/internal/server/storage"
)

// CreateUser creates a new user in the storage
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, google_id, name, avatar_url, provider, email_verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		nullString(user.GoogleID),
		user.Name,
		user.AvatarURL,
		user.Provider,
		user.EmailVerified,
		user.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves user by email
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, `WHERE email = $1`, email)
}

// GetUserByID retrieves user by ID
func (s *Storage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	return s.getUser(ctx, `WHERE id = $1`, userID)
}

// GetUserByGoogleID retrieves user by Google account id
func (s *Storage) GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return s.getUser(ctx, `WHERE google_id = $1`, googleID)
}

func (s *Storage) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, google_id, name, avatar_url, provider, email_verified, created_at
		FROM users ` + where

	user := &models.User{}
	var googleID sql.NullString

	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&googleID,
		&user.Name,
		&user.AvatarURL,
		&user.Provider,
		&user.EmailVerified,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if googleID.Valid {
		user.GoogleID = googleID.String
	}

	return user, nil
}

// UpdatePassword replaces the user's password hash
func (s *Storage) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return requireRow(result, storage.ErrUserNotFound)
}

// MarkEmailVerified sets the email_verified flag
func (s *Storage) MarkEmailVerified(ctx context.Context, userID string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE users SET email_verified = TRUE WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}

	return requireRow(result, storage.ErrUserNotFound)
}
