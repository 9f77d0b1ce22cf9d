package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iudanet/typewriter/internal/client/stories"
)

func (c *Cli) runSave(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("save", flag.ContinueOnError)
	storyID := fs.String("id", "", "Story ID to update (omit to create a new story)")
	title := fs.String("title", "", "Story title")
	filePath := fs.String("file", "", "Read story text from file (default: stdin)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Без флага title запрашиваем интерактивно
	if *title == "" {
		value, err := readInput("Title: ")
		if err != nil {
			return fmt.Errorf("failed to read title: %w", err)
		}
		*title = value
	}

	content, err := readContent(*filePath)
	if err != nil {
		return err
	}

	service, closeService, err := c.storyService(ctx)
	if err != nil {
		return err
	}
	defer closeService()

	story, err := service.SaveStory(ctx, *storyID, *title, content)
	if err != nil {
		if errors.Is(err, stories.ErrStoryNotFound) {
			return fmt.Errorf("story not found with ID: %s", *storyID)
		}
		return fmt.Errorf("failed to save story: %w", err)
	}

	if *storyID == "" {
		fmt.Fprintln(c.out, "✓ Story created!")
	} else {
		fmt.Fprintln(c.out, "✓ Story updated!")
	}
	fmt.Fprintf(c.out, "ID: %s\n", story.ID)

	return nil
}

// readContent читает текст истории из файла или со stdin
func readContent(filePath string) (string, error) {
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), nil
	}

	fmt.Println("Enter story text (end with Ctrl+D):")
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read story text: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}
