package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"go.etcd.io/bbolt"

	"github.com/iudanet/typewriter/internal/client/storage"
	"github.com/iudanet/typewriter/internal/models"
)

// SaveStory stores or updates a story
func (s *Storage) SaveStory(ctx context.Context, story *models.Story) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketStories)
		if bucket == nil {
			return fmt.Errorf("stories bucket not found")
		}

		// Сериализуем историю в JSON
		data, err := json.Marshal(story)
		if err != nil {
			return fmt.Errorf("failed to marshal story: %w", err)
		}

		if err := bucket.Put([]byte(story.ID), data); err != nil {
			return fmt.Errorf("failed to save story: %w", err)
		}

		return nil
	})
}

// GetStories returns all stories, most recently updated first
func (s *Storage) GetStories(ctx context.Context) ([]*models.Story, error) {
	var stories []*models.Story

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketStories)
		if bucket == nil {
			return fmt.Errorf("stories bucket not found")
		}

		return bucket.ForEach(func(k, v []byte) error {
			story := &models.Story{}
			if err := json.Unmarshal(v, story); err != nil {
				return fmt.Errorf("failed to unmarshal story %s: %w", k, err)
			}
			stories = append(stories, story)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	// BoltDB хранит по ключу, сортируем по времени обновления
	sort.Slice(stories, func(i, j int) bool {
		return stories[i].UpdatedAt.After(stories[j].UpdatedAt)
	})

	return stories, nil
}

// GetStory retrieves a story by ID
func (s *Storage) GetStory(ctx context.Context, id string) (*models.Story, error) {
	var story *models.Story

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketStories)
		if bucket == nil {
			return fmt.Errorf("stories bucket not found")
		}

		data := bucket.Get([]byte(id))
		if data == nil {
			return storage.ErrStoryNotFound
		}

		story = &models.Story{}
		if err := json.Unmarshal(data, story); err != nil {
			return fmt.Errorf("failed to unmarshal story: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return story, nil
}

// DeleteStory removes a story; deleting a missing story is a no-op
func (s *Storage) DeleteStory(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketStories)
		if bucket == nil {
			return fmt.Errorf("stories bucket not found")
		}

		data := bucket.Get([]byte(id))
		if data == nil {
			return nil
		}

		// Снимаем публикацию вместе с историей
		story := &models.Story{}
		if err := json.Unmarshal(data, story); err == nil && story.ShareID != "" {
			if shared := tx.Bucket(bucketShared); shared != nil {
				if err := shared.Delete([]byte(story.ShareID)); err != nil {
					return fmt.Errorf("failed to delete share mapping: %w", err)
				}
			}
		}

		if err := bucket.Delete([]byte(id)); err != nil {
			return fmt.Errorf("failed to delete story: %w", err)
		}

		return nil
	})
}

// PublishStory marks the story public under the given share id
func (s *Storage) PublishStory(ctx context.Context, id, shareID string) (*models.Story, error) {
	var story *models.Story

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketStories)
		shared := tx.Bucket(bucketShared)
		if bucket == nil || shared == nil {
			return fmt.Errorf("required bucket not found")
		}

		data := bucket.Get([]byte(id))
		if data == nil {
			return storage.ErrStoryNotFound
		}

		story = &models.Story{}
		if err := json.Unmarshal(data, story); err != nil {
			return fmt.Errorf("failed to unmarshal story: %w", err)
		}

		// Прежняя публичная ссылка перестает действовать
		if story.ShareID != "" {
			if err := shared.Delete([]byte(story.ShareID)); err != nil {
				return fmt.Errorf("failed to delete old share mapping: %w", err)
			}
		}

		story.IsPublic = true
		story.ShareID = shareID

		updated, err := json.Marshal(story)
		if err != nil {
			return fmt.Errorf("failed to marshal story: %w", err)
		}

		if err := bucket.Put([]byte(id), updated); err != nil {
			return fmt.Errorf("failed to save story: %w", err)
		}
		if err := shared.Put([]byte(shareID), []byte(id)); err != nil {
			return fmt.Errorf("failed to save share mapping: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return story, nil
}

// GetSharedStory retrieves a published story by share id
func (s *Storage) GetSharedStory(ctx context.Context, shareID string) (*models.Story, error) {
	var story *models.Story

	err := s.db.View(func(tx *bbolt.Tx) error {
		shared := tx.Bucket(bucketShared)
		bucket := tx.Bucket(bucketStories)
		if shared == nil || bucket == nil {
			return fmt.Errorf("required bucket not found")
		}

		storyID := shared.Get([]byte(shareID))
		if storyID == nil {
			return storage.ErrStoryNotFound
		}

		data := bucket.Get(storyID)
		if data == nil {
			return storage.ErrStoryNotFound
		}

		story = &models.Story{}
		if err := json.Unmarshal(data, story); err != nil {
			return fmt.Errorf("failed to unmarshal story: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return story, nil
}
