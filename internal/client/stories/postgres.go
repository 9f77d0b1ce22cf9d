package stories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver

	"github.com/iudanet/typewriter/internal/models"
	"github.com/iudanet/typewriter/internal/shareid"
)

// shareAttempts число повторов генерации share id при коллизии
const shareAttempts = 3

const storyColumns = `id, user_id, title, content, is_public, share_id, created_at, updated_at`

// PostgresService пишет истории напрямую в базу, минуя HTTP API
// Режим для self-hosted установки, где клиент имеет доступ к той же БД
type PostgresService struct {
	db      *sql.DB
	ownerID string
	baseURL string
}

// NewPostgresService creates a Service talking directly to the server's
// PostgreSQL database. The schema is owned and migrated by the server;
// ownerID scopes every query to one user's library.
func NewPostgresService(ctx context.Context, dsn, ownerID, baseURL string) (*PostgresService, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresService{db: db, ownerID: ownerID, baseURL: baseURL}, nil
}

// Close closes the database connection
func (s *PostgresService) Close() error {
	return s.db.Close()
}

// SaveStory creates or updates a story directly in the database
func (s *PostgresService) SaveStory(ctx context.Context, id, title, content string) (*models.Story, error) {
	now := time.Now()

	if id == "" {
		story := &models.Story{
			ID:        uuid.New().String(),
			UserID:    s.ownerID,
			Title:     title,
			Content:   content,
			CreatedAt: now,
			UpdatedAt: now,
		}

		query := `
			INSERT INTO stories (id, user_id, title, content, is_public, share_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, FALSE, NULL, $5, $6)
		`
		if _, err := s.db.ExecContext(ctx, query,
			story.ID, story.UserID, story.Title, story.Content, story.CreatedAt, story.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to insert story: %w", err)
		}
		return story, nil
	}

	query := `
		UPDATE stories
		SET title = $1, content = $2, updated_at = $3
		WHERE id = $4 AND user_id = $5
	`
	result, err := s.db.ExecContext(ctx, query, title, content, now, id, s.ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to update story: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, ErrStoryNotFound
	}

	return s.GetStory(ctx, id)
}

// GetStories returns all stories of the owner, most recently updated first
func (s *PostgresService) GetStories(ctx context.Context) ([]*models.Story, error) {
	query := `
		SELECT ` + storyColumns + `
		FROM stories
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, s.ownerID)
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

// GetStory retrieves a single story scoped to the owner
func (s *PostgresService) GetStory(ctx context.Context, id string) (*models.Story, error) {
	query := `
		SELECT ` + storyColumns + `
		FROM stories
		WHERE id = $1 AND user_id = $2
	`

	story, err := scanStory(s.db.QueryRowContext(ctx, query, id, s.ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStoryNotFound
		}
		return nil, err
	}

	return story, nil
}

// DeleteStory removes a story; missing or foreign ids are a no-op
func (s *PostgresService) DeleteStory(ctx context.Context, id string) error {
	query := `DELETE FROM stories WHERE id = $1 AND user_id = $2`
	if _, err := s.db.ExecContext(ctx, query, id, s.ownerID); err != nil {
		return fmt.Errorf("failed to delete story: %w", err)
	}
	return nil
}

// ShareStory publishes a story under a fresh share id
func (s *PostgresService) ShareStory(ctx context.Context, id string) (*models.Story, string, error) {
	query := `
		UPDATE stories
		SET is_public = TRUE, share_id = $1
		WHERE id = $2 AND user_id = $3
	`

	// Повторяем генерацию при коллизии share id
	for attempt := 0; attempt < shareAttempts; attempt++ {
		value, err := shareid.New()
		if err != nil {
			return nil, "", fmt.Errorf("failed to generate share id: %w", err)
		}

		result, err := s.db.ExecContext(ctx, query, value, id, s.ownerID)
		if err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return nil, "", fmt.Errorf("failed to share story: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return nil, "", fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return nil, "", ErrStoryNotFound
		}

		story, err := s.GetStory(ctx, id)
		if err != nil {
			return nil, "", err
		}
		return story, fmt.Sprintf("%s/share/%s", s.baseURL, story.ShareID), nil
	}

	return nil, "", fmt.Errorf("failed to share story: share id space exhausted")
}

// GetSharedStory reads any published story by share id
func (s *PostgresService) GetSharedStory(ctx context.Context, shareID string) (*models.SharedStory, error) {
	query := `
		SELECT title, content, created_at
		FROM stories
		WHERE share_id = $1 AND is_public = TRUE
	`

	shared := &models.SharedStory{}
	err := s.db.QueryRowContext(ctx, query, shareID).Scan(&shared.Title, &shared.Content, &shared.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStoryNotFound
		}
		return nil, fmt.Errorf("failed to get shared story: %w", err)
	}

	return shared, nil
}

// rowScanner обобщает *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// scanStory читает одну строку таблицы stories
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

// isUniqueViolation определяет нарушение уникального ограничения (SQLSTATE 23505)
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
