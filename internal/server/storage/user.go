package storage

import (
	"context"

	"github.com/iudanet/typewriter/internal/models"
)

// UserStorage defines interface for user persistence
type UserStorage interface {
	// CreateUser creates a new user in the storage
	// Returns ErrUserAlreadyExists if email is already registered
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves user by email
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves user by ID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// GetUserByGoogleID retrieves user by Google account id
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error)

	// UpdatePassword replaces the user's password hash
	// Returns ErrUserNotFound if user doesn't exist
	UpdatePassword(ctx context.Context, userID, passwordHash string) error

	// MarkEmailVerified sets the email_verified flag
	// Returns ErrUserNotFound if user doesn't exist
	MarkEmailVerified(ctx context.Context, userID string) error
}
