// Package stories implements the client persistence adapter: one contract
// for the story library with interchangeable backends (remote API, direct
// database, local file).
package stories

import (
	"context"
	"errors"

	"github.com/iudanet/typewriter/internal/models"
)

// ErrStoryNotFound indicates that the story doesn't exist in the backend
var ErrStoryNotFound = errors.New("story not found")

// Service is the persistence contract the rest of the client works with.
// Implementations must keep the same semantics: save is an upsert keyed by
// story id, delete is a no-op for missing stories, share issues a fresh
// public id replacing the previous one.
type Service interface {
	// SaveStory creates a story when id is empty, otherwise updates it
	SaveStory(ctx context.Context, id, title, content string) (*models.Story, error)

	// GetStories returns all stories, most recently updated first
	GetStories(ctx context.Context) ([]*models.Story, error)

	// GetStory retrieves a single story by id
	// Returns ErrStoryNotFound if story doesn't exist
	GetStory(ctx context.Context, id string) (*models.Story, error)

	// DeleteStory removes a story; missing stories are a no-op
	DeleteStory(ctx context.Context, id string) error

	// ShareStory publishes the story under a fresh share id and
	// returns the story along with its public URL
	ShareStory(ctx context.Context, id string) (*models.Story, string, error)

	// GetSharedStory reads a published story by share id
	GetSharedStory(ctx context.Context, shareID string) (*models.SharedStory, error)
}
