package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/typewriter/internal/client/auth"
)

func (c *Cli) runStatus(ctx context.Context) error {
	fmt.Fprintln(c.out, "=== Authentication Status ===")
	fmt.Fprintln(c.out)

	session, err := c.authService.Status(ctx)
	if err != nil {
		if err == auth.ErrNotAuthenticated {
			fmt.Fprintln(c.out, "Status: Not authenticated")
			fmt.Fprintln(c.out)
			fmt.Fprintln(c.out, "Run 'typewriter login' to authenticate.")
			return nil
		}
		return fmt.Errorf("failed to check authentication: %w", err)
	}

	remaining := time.Until(session.ExpiresAt)

	fmt.Fprintln(c.out, "Status: Authenticated")
	fmt.Fprintf(c.out, "Email: %s\n", session.Email)
	if session.Name != "" {
		fmt.Fprintf(c.out, "Name: %s\n", session.Name)
	}
	fmt.Fprintf(c.out, "Token expires: %s\n", session.ExpiresAt.Format(time.RFC3339))
	fmt.Fprintf(c.out, "Time remaining: %s\n", remaining.Round(time.Second))
	fmt.Fprintf(c.out, "Storage mode: %s\n", c.opts.Mode)

	return nil
}
