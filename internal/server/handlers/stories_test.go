package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/typewriter/internal/models"
	"github.com/iudanet/typewriter/internal/server/storage"
	"github.com/iudanet/typewriter/internal/shareid"
	"github.com/iudanet/typewriter/pkg/api"
)

// mockStoryStorage is a mock implementation of StoryStorage for testing
type mockStoryStorage struct {
	stories      map[string]*models.Story // story id -> Story
	publishError error
	listError    error
}

func newMockStoryStorage() *mockStoryStorage {
	return &mockStoryStorage{stories: make(map[string]*models.Story)}
}

func (m *mockStoryStorage) ListStories(ctx context.Context, ownerID string) ([]*models.Story, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	var result []*models.Story
	for _, story := range m.stories {
		if story.UserID == ownerID {
			result = append(result, story)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

func (m *mockStoryStorage) GetStory(ctx context.Context, storyID, ownerID string) (*models.Story, error) {
	story, ok := m.stories[storyID]
	if !ok || story.UserID != ownerID {
		return nil, storage.ErrStoryNotFound
	}
	return story, nil
}

func (m *mockStoryStorage) CreateStory(ctx context.Context, story *models.Story) error {
	m.stories[story.ID] = story
	return nil
}

func (m *mockStoryStorage) UpdateStory(ctx context.Context, story *models.Story) error {
	existing, ok := m.stories[story.ID]
	if !ok || existing.UserID != story.UserID {
		return storage.ErrStoryNotFound
	}
	existing.Title = story.Title
	existing.Content = story.Content
	existing.UpdatedAt = story.UpdatedAt
	return nil
}

func (m *mockStoryStorage) DeleteStory(ctx context.Context, storyID, ownerID string) error {
	story, ok := m.stories[storyID]
	if ok && story.UserID == ownerID {
		delete(m.stories, storyID)
	}
	return nil
}

func (m *mockStoryStorage) PublishStory(ctx context.Context, storyID, ownerID, shareID string) (*models.Story, error) {
	if m.publishError != nil {
		return nil, m.publishError
	}
	story, ok := m.stories[storyID]
	if !ok || story.UserID != ownerID {
		return nil, storage.ErrStoryNotFound
	}
	for _, other := range m.stories {
		if other.ID != storyID && other.ShareID == shareID {
			return nil, storage.ErrShareIDTaken
		}
	}
	story.IsPublic = true
	story.ShareID = shareID
	return story, nil
}

func (m *mockStoryStorage) GetSharedStory(ctx context.Context, shareID string) (*models.Story, error) {
	for _, story := range m.stories {
		if story.IsPublic && story.ShareID == shareID {
			return story, nil
		}
	}
	return nil, storage.ErrStoryNotFound
}

func newTestStoryHandler(storyStorage *mockStoryStorage) *StoryHandler {
	return NewStoryHandler(setupTestLogger(), storyStorage, "http://localhost:5173")
}

func authedRequest(method, target string, body []byte, userID string) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), UserIDKey, userID)
	return req.WithContext(ctx)
}

func testStory(id, ownerID string) *models.Story {
	return &models.Story{
		ID:        id,
		UserID:    ownerID,
		Title:     "Chapter One",
		Content:   "It was a dark and stormy night.",
		CreatedAt: time.Now().Add(-time.Hour),
		UpdatedAt: time.Now(),
	}
}

func TestStoryHandler_Save_Create(t *testing.T) {
	storyStorage := newMockStoryStorage()
	handler := newTestStoryHandler(storyStorage)

	body, err := json.Marshal(api.SaveStoryRequest{
		Title:   "Chapter One",
		Content: "It was a dark and stormy night.",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	handler.Save(w, authedRequest(http.MethodPost, "/api/stories", body, "user1"))

	assert.Equal(t, http.StatusCreated, w.Code)

	var response api.StoryResponse
	err = json.NewDecoder(w.Body).Decode(&response)
	require.NoError(t, err)

	assert.NotEmpty(t, response.ID)
	assert.Equal(t, "Chapter One", response.Title)
	assert.False(t, response.IsPublic)

	stored, ok := storyStorage.stories[response.ID]
	require.True(t, ok)
	assert.Equal(t, "user1", stored.UserID)
}

func TestStoryHandler_Save_Update(t *testing.T) {
	storyStorage := newMockStoryStorage()
	storyStorage.stories["story1"] = testStory("story1", "user1")
	handler := newTestStoryHandler(storyStorage)

	body, err := json.Marshal(api.SaveStoryRequest{
		ID:      "story1",
		Title:   "Chapter One, revised",
		Content: "It was a bright and calm morning.",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	handler.Save(w, authedRequest(http.MethodPost, "/api/stories", body, "user1"))

	assert.Equal(t, http.StatusOK, w.Code)

	var response api.StoryResponse
	err = json.NewDecoder(w.Body).Decode(&response)
	require.NoError(t, err)
	assert.Equal(t, "Chapter One, revised", response.Title)
	assert.Equal(t, "It was a bright and calm morning.", response.Content)
}

func TestStoryHandler_Save_UpdateForeignStory(t *testing.T) {
	storyStorage := newMockStoryStorage()
	storyStorage.stories["story1"] = testStory("story1", "user1")
	handler := newTestStoryHandler(storyStorage)

	body, err := json.Marshal(api.SaveStoryRequest{
		ID:      "story1",
		Title:   "Hijacked",
		Content: "not yours",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	handler.Save(w, authedRequest(http.MethodPost, "/api/stories", body, "attacker"))

	// Чужой id выглядит как несуществующий
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Chapter One", storyStorage.stories["story1"].Title)
}

func TestStoryHandler_Save_MissingFields(t *testing.T) {
	handler := newTestStoryHandler(newMockStoryStorage())

	tests := []struct {
		name    string
		title   string
		content string
	}{
		{"empty title", "", "content"},
		{"empty content", "title", ""},
		{"both empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(api.SaveStoryRequest{Title: tt.title, Content: tt.content})
			require.NoError(t, err)

			w := httptest.NewRecorder()
			handler.Save(w, authedRequest(http.MethodPost, "/api/stories", body, "user1"))

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestStoryHandler_List(t *testing.T) {
	storyStorage := newMockStoryStorage()
	older := testStory("story1", "user1")
	older.UpdatedAt = time.Now().Add(-time.Hour)
	newer := testStory("story2", "user1")
	storyStorage.stories["story1"] = older
	storyStorage.stories["story2"] = newer
	storyStorage.stories["story3"] = testStory("story3", "user2")
	handler := newTestStoryHandler(storyStorage)

	w := httptest.NewRecorder()
	handler.List(w, authedRequest(http.MethodGet, "/api/stories", nil, "user1"))

	assert.Equal(t, http.StatusOK, w.Code)

	var response []api.StoryResponse
	err := json.NewDecoder(w.Body).Decode(&response)
	require.NoError(t, err)

	// Только свои истории, недавние первыми
	require.Len(t, response, 2)
	assert.Equal(t, "story2", response[0].ID)
	assert.Equal(t, "story1", response[1].ID)
}

func TestStoryHandler_List_Empty(t *testing.T) {
	handler := newTestStoryHandler(newMockStoryStorage())

	w := httptest.NewRecorder()
	handler.List(w, authedRequest(http.MethodGet, "/api/stories", nil, "user1"))

	assert.Equal(t, http.StatusOK, w.Code)
	// Пустой список — это [], не null
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestStoryHandler_Get_ForeignStory(t *testing.T) {
	storyStorage := newMockStoryStorage()
	storyStorage.stories["story1"] = testStory("story1", "user1")
	handler := newTestStoryHandler(storyStorage)

	req := authedRequest(http.MethodGet, "/api/stories/story1", nil, "user2")
	req.SetPathValue("id", "story1")

	w := httptest.NewRecorder()
	handler.Get(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStoryHandler_Delete_NoOp(t *testing.T) {
	storyStorage := newMockStoryStorage()
	storyStorage.stories["story1"] = testStory("story1", "user1")
	handler := newTestStoryHandler(storyStorage)

	// Удаление несуществующей истории — успех
	req := authedRequest(http.MethodDelete, "/api/stories/ghost", nil, "user1")
	req.SetPathValue("id", "ghost")
	w := httptest.NewRecorder()
	handler.Delete(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Удаление чужой истории — успех, но история остается
	req = authedRequest(http.MethodDelete, "/api/stories/story1", nil, "user2")
	req.SetPathValue("id", "story1")
	w = httptest.NewRecorder()
	handler.Delete(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, storyStorage.stories, "story1")
}

func TestStoryHandler_Share_Success(t *testing.T) {
	storyStorage := newMockStoryStorage()
	storyStorage.stories["story1"] = testStory("story1", "user1")
	handler := newTestStoryHandler(storyStorage)

	req := authedRequest(http.MethodPost, "/api/stories/story1/share", nil, "user1")
	req.SetPathValue("id", "story1")

	w := httptest.NewRecorder()
	handler.Share(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response api.ShareResponse
	err := json.NewDecoder(w.Body).Decode(&response)
	require.NoError(t, err)

	assert.True(t, response.IsPublic)
	assert.Len(t, response.ShareID, shareid.Length)
	assert.Equal(t, "http://localhost:5173/share/"+response.ShareID, response.ShareURL)
}

func TestStoryHandler_Share_ForeignStory(t *testing.T) {
	storyStorage := newMockStoryStorage()
	storyStorage.stories["story1"] = testStory("story1", "user1")
	handler := newTestStoryHandler(storyStorage)

	req := authedRequest(http.MethodPost, "/api/stories/story1/share", nil, "user2")
	req.SetPathValue("id", "story1")

	w := httptest.NewRecorder()
	handler.Share(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStoryHandler_Share_CollisionExhausted(t *testing.T) {
	storyStorage := newMockStoryStorage()
	storyStorage.stories["story1"] = testStory("story1", "user1")
	storyStorage.publishError = storage.ErrShareIDTaken
	handler := newTestStoryHandler(storyStorage)

	req := authedRequest(http.MethodPost, "/api/stories/story1/share", nil, "user1")
	req.SetPathValue("id", "story1")

	w := httptest.NewRecorder()
	handler.Share(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestStoryHandler_GetShared_Projection(t *testing.T) {
	storyStorage := newMockStoryStorage()
	story := testStory("story1", "user1")
	story.IsPublic = true
	story.ShareID = "abc123def456"
	storyStorage.stories["story1"] = story
	handler := newTestStoryHandler(storyStorage)

	req := httptest.NewRequest(http.MethodGet, "/api/stories/shared/abc123def456", nil)
	req.SetPathValue("shareId", "abc123def456")

	w := httptest.NewRecorder()
	handler.GetShared(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	// В публичном ответе нет id, user_id и share_id
	var raw map[string]any
	err := json.NewDecoder(w.Body).Decode(&raw)
	require.NoError(t, err)

	assert.Equal(t, "Chapter One", raw["title"])
	assert.Equal(t, "It was a dark and stormy night.", raw["content"])
	assert.Contains(t, raw, "created_at")
	assert.NotContains(t, raw, "id")
	assert.NotContains(t, raw, "user_id")
	assert.NotContains(t, raw, "share_id")
}

func TestStoryHandler_GetShared_NotFound(t *testing.T) {
	handler := newTestStoryHandler(newMockStoryStorage())

	req := httptest.NewRequest(http.MethodGet, "/api/stories/shared/unknown", nil)
	req.SetPathValue("shareId", "unknown")

	w := httptest.NewRecorder()
	handler.GetShared(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStoryHandler_Unauthorized(t *testing.T) {
	handler := newTestStoryHandler(newMockStoryStorage())

	w := httptest.NewRecorder()
	handler.List(w, httptest.NewRequest(http.MethodGet, "/api/stories", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
