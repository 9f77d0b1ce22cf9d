package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that user with this email already exists
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrTokenNotFound indicates that reset or verification token was not found
	ErrTokenNotFound = errors.New("token not found")

	// ErrStoryNotFound indicates that story was not found or is not visible to the caller
	ErrStoryNotFound = errors.New("story not found")

	// ErrShareIDTaken indicates a share id collision on publish
	ErrShareIDTaken = errors.New("share id already taken")
)
