package storage

import (
	"context"

	"github.com/iudanet/typewriter/internal/models"
)

// StoryStorage defines interface for story persistence on client
// Used by the local-only mode, where the story library lives
// entirely on this machine.
type StoryStorage interface {
	// SaveStory stores or updates a story
	SaveStory(ctx context.Context, story *models.Story) error

	// GetStories returns all stories, most recently updated first
	GetStories(ctx context.Context) ([]*models.Story, error)

	// GetStory retrieves a story by ID
	// Returns ErrStoryNotFound if story doesn't exist
	GetStory(ctx context.Context, id string) (*models.Story, error)

	// DeleteStory removes a story; deleting a missing story is a no-op
	DeleteStory(ctx context.Context, id string) error

	// PublishStory marks the story public under the given share id,
	// replacing any previous share id
	// Returns ErrStoryNotFound if story doesn't exist
	PublishStory(ctx context.Context, id, shareID string) (*models.Story, error)

	// GetSharedStory retrieves a published story by share id
	// Returns ErrStoryNotFound if nothing is published under it
	GetSharedStory(ctx context.Context, shareID string) (*models.Story, error)
}
