// Package mail abstracts out-of-band delivery of account links
// (password reset, email verification).
package mail

import (
	"context"
	"log/slog"
)

// Sender delivers an account link to the given address.
// Production delivery (SMTP, SendGrid, ...) is an external collaborator;
// this repo ships only a development implementation.
type Sender interface {
	Deliver(ctx context.Context, toAddress, link string) error
}

// LogSender пишет ссылку в лог вместо реальной отправки письма
// Только для разработки
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a Sender that logs links instead of sending mail
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Deliver logs the link at INFO level
func (s *LogSender) Deliver(ctx context.Context, toAddress, link string) error {
	s.logger.InfoContext(ctx, "mail delivery (development mode)",
		slog.String("to", toAddress),
		slog.String("link", link))
	return nil
}
