package stories

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	clientapi "github.com/iudanet/typewriter/internal/client/api"
	"github.com/iudanet/typewriter/internal/models"
	"github.com/iudanet/typewriter/pkg/api"
)

// RemoteService хранит истории через HTTP API сервера
type RemoteService struct {
	client *clientapi.Client
}

// NewRemoteService creates a Service backed by the typewriter server API.
// The client must already carry a bearer token for authenticated calls.
func NewRemoteService(client *clientapi.Client) *RemoteService {
	return &RemoteService{client: client}
}

// SaveStory creates or updates a story via the API
func (s *RemoteService) SaveStory(ctx context.Context, id, title, content string) (*models.Story, error) {
	resp, err := s.client.SaveStory(ctx, api.SaveStoryRequest{
		ID:      id,
		Title:   title,
		Content: content,
	})
	if err != nil {
		return nil, mapAPIError(err)
	}
	return storyFromResponse(resp), nil
}

// GetStories returns all stories from the server
func (s *RemoteService) GetStories(ctx context.Context) ([]*models.Story, error) {
	resp, err := s.client.ListStories(ctx)
	if err != nil {
		return nil, mapAPIError(err)
	}

	stories := make([]*models.Story, 0, len(resp))
	for i := range resp {
		stories = append(stories, storyFromResponse(&resp[i]))
	}
	return stories, nil
}

// GetStory retrieves a single story from the server
func (s *RemoteService) GetStory(ctx context.Context, id string) (*models.Story, error) {
	resp, err := s.client.GetStory(ctx, id)
	if err != nil {
		return nil, mapAPIError(err)
	}
	return storyFromResponse(resp), nil
}

// DeleteStory removes a story via the API
func (s *RemoteService) DeleteStory(ctx context.Context, id string) error {
	if err := s.client.DeleteStory(ctx, id); err != nil {
		return mapAPIError(err)
	}
	return nil
}

// ShareStory publishes a story and returns the public URL from the server
func (s *RemoteService) ShareStory(ctx context.Context, id string) (*models.Story, string, error) {
	resp, err := s.client.ShareStory(ctx, id)
	if err != nil {
		return nil, "", mapAPIError(err)
	}
	return storyFromResponse(&resp.StoryResponse), resp.ShareURL, nil
}

// GetSharedStory reads a published story by share id
func (s *RemoteService) GetSharedStory(ctx context.Context, shareID string) (*models.SharedStory, error) {
	resp, err := s.client.GetSharedStory(ctx, shareID)
	if err != nil {
		return nil, mapAPIError(err)
	}
	return &models.SharedStory{
		Title:     resp.Title,
		Content:   resp.Content,
		CreatedAt: resp.CreatedAt,
	}, nil
}

// storyFromResponse конвертирует ответ API в модель
func storyFromResponse(resp *api.StoryResponse) *models.Story {
	return &models.Story{
		ID:        resp.ID,
		Title:     resp.Title,
		Content:   resp.Content,
		IsPublic:  resp.IsPublic,
		ShareID:   resp.ShareID,
		CreatedAt: resp.CreatedAt,
		UpdatedAt: resp.UpdatedAt,
	}
}

// mapAPIError переводит 404 от сервера в ErrStoryNotFound
func mapAPIError(err error) error {
	var apiErr *clientapi.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrStoryNotFound, apiErr.Message)
	}
	return err
}
