package cli

import (
	"context"
	"fmt"
	"time"
)

func (c *Cli) runList(ctx context.Context) error {
	service, closeService, err := c.storyService(ctx)
	if err != nil {
		return err
	}
	defer closeService()

	storyList, err := service.GetStories(ctx)
	if err != nil {
		return fmt.Errorf("failed to list stories: %w", err)
	}

	fmt.Fprintln(c.out, "=== Stories ===")
	fmt.Fprintln(c.out)

	if len(storyList) == 0 {
		fmt.Fprintln(c.out, "No stories found.")
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, "Use 'typewriter save' to write your first story.")
		return nil
	}

	fmt.Fprintf(c.out, "Found %d story(ies):\n", len(storyList))
	fmt.Fprintln(c.out)

	for i, story := range storyList {
		title := story.Title
		if title == "" {
			title = "(untitled)"
		}

		fmt.Fprintf(c.out, "%d. %s\n", i+1, title)
		fmt.Fprintf(c.out, "   ID:      %s\n", story.ID)
		fmt.Fprintf(c.out, "   Updated: %s\n", story.UpdatedAt.Format(time.RFC3339))
		if story.IsPublic {
			fmt.Fprintf(c.out, "   Public:  %s\n", story.ShareID)
		}
		fmt.Fprintln(c.out)
	}

	return nil
}
