package stories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/typewriter/internal/client/storage"
	"github.com/iudanet/typewriter/internal/models"
	"github.com/iudanet/typewriter/internal/shareid"
)

// LocalService хранит истории только на этой машине, без сервера
type LocalService struct {
	storage storage.StoryStorage
	baseURL string
}

// NewLocalService creates a Service backed by local client storage.
// baseURL is used to render share links; with no server behind them they
// only resolve for this machine's own shared lookups.
func NewLocalService(store storage.StoryStorage, baseURL string) *LocalService {
	return &LocalService{storage: store, baseURL: baseURL}
}

// SaveStory creates or updates a story in local storage
func (s *LocalService) SaveStory(ctx context.Context, id, title, content string) (*models.Story, error) {
	now := time.Now()

	if id == "" {
		story := &models.Story{
			ID:        uuid.New().String(),
			Title:     title,
			Content:   content,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.storage.SaveStory(ctx, story); err != nil {
			return nil, err
		}
		return story, nil
	}

	story, err := s.storage.GetStory(ctx, id)
	if err != nil {
		return nil, mapStorageError(err)
	}

	story.Title = title
	story.Content = content
	story.UpdatedAt = now

	if err := s.storage.SaveStory(ctx, story); err != nil {
		return nil, err
	}
	return story, nil
}

// GetStories returns all local stories
func (s *LocalService) GetStories(ctx context.Context) ([]*models.Story, error) {
	return s.storage.GetStories(ctx)
}

// GetStory retrieves a single local story
func (s *LocalService) GetStory(ctx context.Context, id string) (*models.Story, error) {
	story, err := s.storage.GetStory(ctx, id)
	if err != nil {
		return nil, mapStorageError(err)
	}
	return story, nil
}

// DeleteStory removes a local story; missing stories are a no-op
func (s *LocalService) DeleteStory(ctx context.Context, id string) error {
	return s.storage.DeleteStory(ctx, id)
}

// ShareStory publishes a story under a fresh share id
func (s *LocalService) ShareStory(ctx context.Context, id string) (*models.Story, string, error) {
	value, err := shareid.New()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate share id: %w", err)
	}

	story, err := s.storage.PublishStory(ctx, id, value)
	if err != nil {
		return nil, "", mapStorageError(err)
	}

	return story, fmt.Sprintf("%s/share/%s", s.baseURL, story.ShareID), nil
}

// GetSharedStory reads a locally published story by share id
func (s *LocalService) GetSharedStory(ctx context.Context, shareID string) (*models.SharedStory, error) {
	story, err := s.storage.GetSharedStory(ctx, shareID)
	if err != nil {
		return nil, mapStorageError(err)
	}
	return story.Shared(), nil
}

// mapStorageError переводит ошибку хранилища в ошибку сервиса
func mapStorageError(err error) error {
	if errors.Is(err, storage.ErrStoryNotFound) {
		return ErrStoryNotFound
	}
	return err
}
