package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iudanet/typewriter/internal/models"
	"github.com/iudanet/typewriter/internal/server/storage"
)

// CreateUser creates a new user in the storage
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, google_id, name, avatar_url, provider, email_verified, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
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
		// Проверяем на duplicate email / google_id
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return storage.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves user by email
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, `WHERE email = ?`, email)
}

// GetUserByID retrieves user by ID
func (s *Storage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	return s.getUser(ctx, `WHERE id = ?`, userID)
}

// GetUserByGoogleID retrieves user by Google account id
func (s *Storage) GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return s.getUser(ctx, `WHERE google_id = ?`, googleID)
}

// getUser выполняет выборку одного пользователя по произвольному условию
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
	query := `UPDATE users SET password_hash = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return requireRow(result, storage.ErrUserNotFound)
}

// MarkEmailVerified sets the email_verified flag
func (s *Storage) MarkEmailVerified(ctx context.Context, userID string) error {
	query := `UPDATE users SET email_verified = 1 WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}

	return requireRow(result, storage.ErrUserNotFound)
}

// requireRow возвращает notFound, если запрос не затронул ни одной строки
func requireRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return notFound
	}

	return nil
}

// nullString конвертирует пустую строку в NULL для уникальных nullable колонок
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
