package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runResetRequest(ctx context.Context, args []string) error {
	var email string
	var err error

	if len(args) > 0 {
		email = args[0]
	} else {
		email, err = readInput("Email: ")
		if err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
	}

	devLink, err := c.authService.RequestPasswordReset(ctx, email)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, "If the email is registered, a reset link has been sent.")
	if devLink != "" {
		// Сервер в dev-режиме возвращает ссылку прямо в ответе
		fmt.Fprintf(c.out, "Reset link (dev mode): %s\n", devLink)
	}

	return nil
}

func (c *Cli) runResetConfirm(ctx context.Context) error {
	token, err := readInput("Reset token: ")
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}

	password, err := readPassword("New password: ")
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

	if err := c.authService.ConfirmPasswordReset(ctx, token, password); err != nil {
		return err
	}

	fmt.Fprintln(c.out, "✓ Password updated. Please login with your new password.")
	return nil
}
