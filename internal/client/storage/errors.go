package storage

import "errors"

// Common client storage errors
var (
	// ErrAuthNotFound indicates that no authentication data exists
	ErrAuthNotFound = errors.New("authentication data not found")

	// ErrStoryNotFound indicates that story was not found
	ErrStoryNotFound = errors.New("story not found")
)
