package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/typewriter/internal/models"
	"github.com/iudanet/typewriter/internal/server/storage"
)

func TestStoryStorage_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	ownerID := createTestUser(t, ctx, s)
	story := testStory(ownerID, "First", "Once upon a time")

	require.NoError(t, s.CreateStory(ctx, story))

	retrieved, err := s.GetStory(ctx, story.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, "First", retrieved.Title)
	assert.Equal(t, "Once upon a time", retrieved.Content)
	assert.False(t, retrieved.IsPublic)
	assert.Empty(t, retrieved.ShareID)
}

func TestStoryStorage_GetStory_WrongOwner(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	ownerID := createTestUser(t, ctx, s)
	otherID := createTestUser(t, ctx, s)

	story := testStory(ownerID, "Private", "content")
	require.NoError(t, s.CreateStory(ctx, story))

	// Чужая история не видна
	_, err := s.GetStory(ctx, story.ID, otherID)
	assert.ErrorIs(t, err, storage.ErrStoryNotFound)
}

func TestStoryStorage_ListStories_Order(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	ownerID := createTestUser(t, ctx, s)
	otherID := createTestUser(t, ctx, s)

	base := time.Now().Add(-time.Hour)
	older := testStory(ownerID, "Older", "a")
	older.CreatedAt = base
	older.UpdatedAt = base

	newer := testStory(ownerID, "Newer", "b")
	newer.CreatedAt = base.Add(time.Minute)
	newer.UpdatedAt = base.Add(30 * time.Minute)

	foreign := testStory(otherID, "Foreign", "c")

	require.NoError(t, s.CreateStory(ctx, older))
	require.NoError(t, s.CreateStory(ctx, newer))
	require.NoError(t, s.CreateStory(ctx, foreign))

	stories, err := s.ListStories(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, stories, 2)

	// Сортировка по updated_at, сначала свежие
	assert.Equal(t, "Newer", stories[0].Title)
	assert.Equal(t, "Older", stories[1].Title)
}

func TestStoryStorage_UpdateStory(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	ownerID := createTestUser(t, ctx, s)
	otherID := createTestUser(t, ctx, s)

	story := testStory(ownerID, "Draft", "v1")
	require.NoError(t, s.CreateStory(ctx, story))

	story.Title = "Final"
	story.Content = "v2"
	story.UpdatedAt = time.Now().Add(time.Minute)
	require.NoError(t, s.UpdateStory(ctx, story))

	retrieved, err := s.GetStory(ctx, story.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, "Final", retrieved.Title)
	assert.Equal(t, "v2", retrieved.Content)

	// Обновление с чужим owner id не трогает строку
	stolen := *story
	stolen.UserID = otherID
	stolen.Title = "Hijacked"
	err = s.UpdateStory(ctx, &stolen)
	assert.ErrorIs(t, err, storage.ErrStoryNotFound)

	retrieved, err = s.GetStory(ctx, story.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, "Final", retrieved.Title)
}

func TestStoryStorage_DeleteStory_NoopSafe(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	ownerID := createTestUser(t, ctx, s)
	otherID := createTestUser(t, ctx, s)

	story := testStory(ownerID, "Doomed", "x")
	require.NoError(t, s.CreateStory(ctx, story))

	// Удаление чужим пользователем молча не затрагивает строк
	require.NoError(t, s.DeleteStory(ctx, story.ID, otherID))

	_, err := s.GetStory(ctx, story.ID, ownerID)
	require.NoError(t, err)

	require.NoError(t, s.DeleteStory(ctx, story.ID, ownerID))

	_, err = s.GetStory(ctx, story.ID, ownerID)
	assert.ErrorIs(t, err, storage.ErrStoryNotFound)

	// Повторное удаление тоже не ошибка
	require.NoError(t, s.DeleteStory(ctx, story.ID, ownerID))
}

func TestStoryStorage_PublishAndGetShared(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	ownerID := createTestUser(t, ctx, s)
	story := testStory(ownerID, "Public", "readable")
	require.NoError(t, s.CreateStory(ctx, story))

	// До публикации история недоступна по share id
	_, err := s.GetSharedStory(ctx, "share-1")
	assert.ErrorIs(t, err, storage.ErrStoryNotFound)

	published, err := s.PublishStory(ctx, story.ID, ownerID, "share-1")
	require.NoError(t, err)
	assert.True(t, published.IsPublic)
	assert.Equal(t, "share-1", published.ShareID)

	shared, err := s.GetSharedStory(ctx, "share-1")
	require.NoError(t, err)
	assert.Equal(t, "Public", shared.Title)
}

func TestStoryStorage_Republish_InvalidatesOldShareID(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	ownerID := createTestUser(t, ctx, s)
	story := testStory(ownerID, "Twice", "shared")
	require.NoError(t, s.CreateStory(ctx, story))

	_, err := s.PublishStory(ctx, story.ID, ownerID, "first-id")
	require.NoError(t, err)

	_, err = s.PublishStory(ctx, story.ID, ownerID, "second-id")
	require.NoError(t, err)

	// Читается только последний выданный share id
	_, err = s.GetSharedStory(ctx, "first-id")
	assert.ErrorIs(t, err, storage.ErrStoryNotFound)

	shared, err := s.GetSharedStory(ctx, "second-id")
	require.NoError(t, err)
	assert.Equal(t, "Twice", shared.Title)
}

func TestStoryStorage_Publish_ShareIDCollision(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	ownerID := createTestUser(t, ctx, s)

	first := testStory(ownerID, "A", "a")
	second := testStory(ownerID, "B", "b")
	require.NoError(t, s.CreateStory(ctx, first))
	require.NoError(t, s.CreateStory(ctx, second))

	_, err := s.PublishStory(ctx, first.ID, ownerID, "collide")
	require.NoError(t, err)

	_, err = s.PublishStory(ctx, second.ID, ownerID, "collide")
	assert.ErrorIs(t, err, storage.ErrShareIDTaken)
}

func TestStoryStorage_Publish_WrongOwner(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	ownerID := createTestUser(t, ctx, s)
	otherID := createTestUser(t, ctx, s)

	story := testStory(ownerID, "Mine", "x")
	require.NoError(t, s.CreateStory(ctx, story))

	_, err := s.PublishStory(ctx, story.ID, otherID, "nope")
	assert.ErrorIs(t, err, storage.ErrStoryNotFound)
}

// Helper functions

func testStory(ownerID, title, content string) *models.Story {
	now := time.Now()
	return &models.Story{
		ID:        uuid.New().String(),
		UserID:    ownerID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
