package cli

import (
	"context"
	"fmt"
	"time"
)

func (c *Cli) runRegister(ctx context.Context) error {
	fmt.Fprintln(c.out, "=== Register ===")
	fmt.Fprintln(c.out)

	// Запрашиваем email
	email, err := readInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	// Отображаемое имя опционально
	name, err := readInput("Name (optional): ")
	if err != nil {
		return fmt.Errorf("failed to read name: %w", err)
	}

	// Запрашиваем пароль дважды
	password, err := readPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	passwordConfirm, err := readPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	if password != passwordConfirm {
		return fmt.Errorf("passwords do not match")
	}

	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "Registering...")

	session, err := c.authService.Register(ctx, email, password, name)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "✓ Registration successful!")
	fmt.Fprintf(c.out, "Email: %s\n", session.Email)
	fmt.Fprintf(c.out, "Token expires: %s\n", session.ExpiresAt.Format(time.RFC3339))
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "A verification link has been sent to your email.")

	return nil
}
