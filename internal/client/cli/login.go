package cli

import (
	"context"
	"fmt"
	"time"
)

func (c *Cli) runLogin(ctx context.Context) error {
	fmt.Fprintln(c.out, "=== Login ===")
	fmt.Fprintln(c.out)

	// Запрашиваем email
	email, err := readInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	// Запрашиваем пароль
	password, err := readPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "Authenticating...")

	session, err := c.authService.Login(ctx, email, password)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "✓ Login successful!")
	fmt.Fprintf(c.out, "Email: %s\n", session.Email)
	fmt.Fprintf(c.out, "Token expires: %s\n", session.ExpiresAt.Format(time.RFC3339))

	return nil
}
