package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runLogout(ctx context.Context) error {
	if err := c.authService.Logout(ctx); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}

	fmt.Fprintln(c.out, "✓ Logged out. Local session removed.")
	return nil
}
