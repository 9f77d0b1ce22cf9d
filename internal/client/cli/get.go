package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/typewriter/internal/client/stories"
)

func (c *Cli) runGet(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing story ID. Usage: typewriter get <id>")
	}

	storyID := args[0]

	service, closeService, err := c.storyService(ctx)
	if err != nil {
		return err
	}
	defer closeService()

	story, err := service.GetStory(ctx, storyID)
	if err != nil {
		if errors.Is(err, stories.ErrStoryNotFound) {
			return fmt.Errorf("story not found with ID: %s", storyID)
		}
		return fmt.Errorf("failed to get story: %w", err)
	}

	fmt.Fprintf(c.out, "Title:   %s\n", story.Title)
	fmt.Fprintf(c.out, "ID:      %s\n", story.ID)
	fmt.Fprintf(c.out, "Created: %s\n", story.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(c.out, "Updated: %s\n", story.UpdatedAt.Format(time.RFC3339))
	if story.IsPublic {
		fmt.Fprintf(c.out, "Public:  %s\n", story.ShareID)
	}
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, story.Content)

	return nil
}
