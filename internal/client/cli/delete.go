package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runDelete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing story ID. Usage: typewriter delete <id>")
	}

	storyID := args[0]

	service, closeService, err := c.storyService(ctx)
	if err != nil {
		return err
	}
	defer closeService()

	// Удаление несуществующей истории не ошибка
	if err := service.DeleteStory(ctx, storyID); err != nil {
		return fmt.Errorf("failed to delete story: %w", err)
	}

	fmt.Fprintln(c.out, "✓ Story deleted.")
	return nil
}
