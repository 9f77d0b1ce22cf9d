package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/typewriter/internal/client/stories"
)

func (c *Cli) runShare(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing story ID. Usage: typewriter share <id>")
	}

	storyID := args[0]

	service, closeService, err := c.storyService(ctx)
	if err != nil {
		return err
	}
	defer closeService()

	story, shareURL, err := service.ShareStory(ctx, storyID)
	if err != nil {
		if errors.Is(err, stories.ErrStoryNotFound) {
			return fmt.Errorf("story not found with ID: %s", storyID)
		}
		return fmt.Errorf("failed to share story: %w", err)
	}

	fmt.Fprintln(c.out, "✓ Story published!")
	fmt.Fprintf(c.out, "Share ID:  %s\n", story.ShareID)
	fmt.Fprintf(c.out, "Share URL: %s\n", shareURL)
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "Anyone with this link can read the story.")
	fmt.Fprintln(c.out, "Sharing again issues a new link and invalidates this one.")

	return nil
}

func (c *Cli) runShared(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing share ID. Usage: typewriter shared <share-id>")
	}

	shareID := args[0]

	service, closeService, err := c.sharedStoryService(ctx)
	if err != nil {
		return err
	}
	defer closeService()

	story, err := service.GetSharedStory(ctx, shareID)
	if err != nil {
		if errors.Is(err, stories.ErrStoryNotFound) {
			return fmt.Errorf("no published story found with share ID: %s", shareID)
		}
		return fmt.Errorf("failed to get shared story: %w", err)
	}

	fmt.Fprintf(c.out, "Title:   %s\n", story.Title)
	fmt.Fprintf(c.out, "Created: %s\n", story.CreatedAt.Format(time.RFC3339))
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, story.Content)

	return nil
}

// sharedStoryService собирает хранилище для чтения публичных историй
// Чтение по share id не требует авторизации ни в одном режиме
func (c *Cli) sharedStoryService(ctx context.Context) (stories.Service, func(), error) {
	noop := func() {}

	switch c.opts.Mode {
	case ModeLocal:
		return stories.NewLocalService(c.boltStorage, c.opts.FrontendURL), noop, nil
	case ModeRemote:
		return stories.NewRemoteService(c.apiClient), noop, nil
	case ModePostgres:
		// Публичное чтение не фильтруется по владельцу, сессия не нужна
		service, err := stories.NewPostgresService(ctx, c.opts.DatabaseDSN, "", c.opts.FrontendURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return service, func() { _ = service.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage mode: %s", c.opts.Mode)
	}
}
