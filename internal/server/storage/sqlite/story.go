package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iudanet/typewriter/internal/models"
	"github.com/iudanet/typewriter/internal/server/storage"
)

const storyColumns = `id, user_id, title, content, is_public, share_id, created_at, updated_at`

// ListStories returns all stories of the owner, most recently updated first
func (s *Storage) ListStories(ctx context.Context, ownerID string) ([]*models.Story, error) {
	query := `
		SELECT ` + storyColumns + `
		FROM stories
		WHERE user_id = ?
		ORDER BY updated_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	defer rows.Close()

	var stories []*models.Story
	for rows.Next() {
		story, err := scanStory(rows)
		if err != nil {
			return nil, err
		}
		stories = append(stories, story)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stories: %w", err)
	}

	return stories, nil
}

// GetStory retrieves one story by id and owner
func (s *Storage) GetStory(ctx context.Context, storyID, ownerID string) (*models.Story, error) {
	query := `
		SELECT ` + storyColumns + `
		FROM stories
		WHERE id = ? AND user_id = ?
	`

	story, err := scanStory(s.db.QueryRowContext(ctx, query, storyID, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrStoryNotFound
		}
		return nil, err
	}

	return story, nil
}

// CreateStory inserts a new story
func (s *Storage) CreateStory(ctx context.Context, story *models.Story) error {
	query := `
		INSERT INTO stories (id, user_id, title, content, is_public, share_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		story.ID,
		story.UserID,
		story.Title,
		story.Content,
		story.IsPublic,
		nullString(story.ShareID),
		story.CreatedAt,
		story.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert story: %w", err)
	}

	return nil
}

// UpdateStory updates title, content and updated_at by (id, owner)
func (s *Storage) UpdateStory(ctx context.Context, story *models.Story) error {
	query := `
		UPDATE stories
		SET title = ?, content = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		story.Title,
		story.Content,
		story.UpdatedAt,
		story.ID,
		story.UserID,
	)

	if err != nil {
		return fmt.Errorf("failed to update story: %w", err)
	}

	return requireRow(result, storage.ErrStoryNotFound)
}

// DeleteStory deletes a story by (id, owner)
// Zero affected rows is not an error: the story is simply not visible to the caller
func (s *Storage) DeleteStory(ctx context.Context, storyID, ownerID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM stories WHERE id = ? AND user_id = ?`, storyID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete story: %w", err)
	}

	return nil
}

// PublishStory sets is_public and a new share id by (id, owner)
func (s *Storage) PublishStory(ctx context.Context, storyID, ownerID, shareID string) (*models.Story, error) {
	query := `
		UPDATE stories
		SET is_public = 1, share_id = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := s.db.ExecContext(ctx, query, shareID, storyID, ownerID)
	if err != nil {
		// Коллизия share_id с другой историей
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, storage.ErrShareIDTaken
		}
		return nil, fmt.Errorf("failed to publish story: %w", err)
	}

	if err := requireRow(result, storage.ErrStoryNotFound); err != nil {
		return nil, err
	}

	return s.GetStory(ctx, storyID, ownerID)
}

// GetSharedStory retrieves a story by share id, only when it is public
func (s *Storage) GetSharedStory(ctx context.Context, shareID string) (*models.Story, error) {
	query := `
		SELECT ` + storyColumns + `
		FROM stories
		WHERE share_id = ? AND is_public = 1
	`

	story, err := scanStory(s.db.QueryRowContext(ctx, query, shareID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrStoryNotFound
		}
		return nil, err
	}

	return story, nil
}

// rowScanner покрывает *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// scanStory читает одну историю из строки результата
func scanStory(row rowScanner) (*models.Story, error) {
	story := &models.Story{}
	var shareID sql.NullString

	err := row.Scan(
		&story.ID,
		&story.UserID,
		&story.Title,
		&story.Content,
		&story.IsPublic,
		&shareID,
		&story.CreatedAt,
		&story.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan story: %w", err)
	}

	if shareID.Valid {
		story.ShareID = shareID.String
	}

	return story, nil
}
