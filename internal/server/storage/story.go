package storage

import (
	"context"

	"github.com/iudanet/typewriter/internal/models"
)

// StoryStorage defines interface for story persistence
// All mutating operations are keyed by (story id, owner id); a row that
// doesn't match both is treated as not existing for the caller
type StoryStorage interface {
	// ListStories returns all stories of the owner, most recently updated first
	ListStories(ctx context.Context, ownerID string) ([]*models.Story, error)

	// GetStory retrieves one story by id and owner
	// Returns ErrStoryNotFound if no matching row exists
	GetStory(ctx context.Context, storyID, ownerID string) (*models.Story, error)

	// CreateStory inserts a new story
	CreateStory(ctx context.Context, story *models.Story) error

	// UpdateStory updates title, content and updated_at by (id, owner)
	// Returns ErrStoryNotFound if no matching row exists
	UpdateStory(ctx context.Context, story *models.Story) error

	// DeleteStory deletes a story by (id, owner)
	// Deleting a non-matching row is not an error (affects zero rows)
	DeleteStory(ctx context.Context, storyID, ownerID string) error

	// PublishStory sets is_public and a new share id by (id, owner)
	// Returns ErrStoryNotFound if no matching row exists and
	// ErrShareIDTaken if shareID collides with another story
	PublishStory(ctx context.Context, storyID, ownerID, shareID string) (*models.Story, error)

	// GetSharedStory retrieves a story by share id, only when it is public
	// Returns ErrStoryNotFound otherwise
	GetSharedStory(ctx context.Context, shareID string) (*models.Story, error)
}
