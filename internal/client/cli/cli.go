// Package cli implements the typewriter command line client.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/iudanet/typewriter/internal/client/api"
	"github.com/iudanet/typewriter/internal/client/auth"
	"github.com/iudanet/typewriter/internal/client/storage/boltdb"
	"github.com/iudanet/typewriter/internal/client/stories"
)

// Storage modes supported by the client
const (
	ModeRemote   = "remote"
	ModeLocal    = "local"
	ModePostgres = "postgres"
)

// Options задает режим работы клиента
type Options struct {
	ServerURL   string // адрес сервера для remote режима и авторизации
	Mode        string // remote, local или postgres
	DatabaseDSN string // DSN базы для postgres режима
	FrontendURL string // база для share ссылок в local/postgres режимах
}

// Cli обрабатывает команды клиента
type Cli struct {
	opts        Options
	apiClient   *api.Client
	authService *auth.Service
	boltStorage *boltdb.Storage
	out         io.Writer
}

// New создает новый обработчик команд
func New(opts Options, apiClient *api.Client, authService *auth.Service, boltStorage *boltdb.Storage) *Cli {
	return &Cli{
		opts:        opts,
		apiClient:   apiClient,
		authService: authService,
		boltStorage: boltStorage,
		out:         os.Stdout,
	}
}

// storyService собирает хранилище историй для выбранного режима
// Возвращаемая функция закрывает ресурсы режима после команды
func (c *Cli) storyService(ctx context.Context) (stories.Service, func(), error) {
	noop := func() {}

	switch c.opts.Mode {
	case ModeLocal:
		// Локальный режим работает без сервера и без авторизации
		return stories.NewLocalService(c.boltStorage, c.opts.FrontendURL), noop, nil

	case ModePostgres:
		// Прямой доступ к базе сервера; владелец берется из сохраненной сессии
		session, err := c.restoreSession(ctx)
		if err != nil {
			return nil, nil, err
		}

		service, err := stories.NewPostgresService(ctx, c.opts.DatabaseDSN, session.UserID, c.opts.FrontendURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return service, func() { _ = service.Close() }, nil

	case ModeRemote:
		if _, err := c.restoreSession(ctx); err != nil {
			return nil, nil, err
		}
		return stories.NewRemoteService(c.apiClient), noop, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage mode: %s", c.opts.Mode)
	}
}

// restoreSession загружает сохраненную сессию и токен
func (c *Cli) restoreSession(ctx context.Context) (*auth.Session, error) {
	session, err := c.authService.RestoreSession(ctx)
	if err != nil {
		if err == auth.ErrNotAuthenticated {
			return nil, fmt.Errorf("not authenticated. Please run 'typewriter login' first")
		}
		return nil, err
	}
	return session, nil
}

func PrintUsage() {
	fmt.Println("Typewriter Client")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  typewriter [OPTIONS] COMMAND")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version            Show version information")
	fmt.Println("  --server URL         Server URL (default: http://localhost:8080)")
	fmt.Println("  --db PATH            Path to local database (default: typewriter-client.db)")
	fmt.Println("  --mode MODE          Storage mode: remote, local or postgres (default: remote)")
	fmt.Println("  --dsn DSN            PostgreSQL DSN for postgres mode")
	fmt.Println("  --frontend URL       Base URL for share links in local/postgres modes")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  register                Register new account")
	fmt.Println("  login                   Login to server")
	fmt.Println("  logout                  Remove local session")
	fmt.Println("  status                  Show authentication status")
	fmt.Println("  reset-request <email>   Request a password reset link")
	fmt.Println("  reset-confirm           Set a new password using a reset token")
	fmt.Println("  list                    List stories")
	fmt.Println("  get <id>                Show full story text")
	fmt.Println("  save [flags]            Create or update a story")
	fmt.Println("  delete <id>             Delete a story")
	fmt.Println("  share <id>              Publish a story and print its public link")
	fmt.Println("  shared <share-id>       Read a published story")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  typewriter register")
	fmt.Println("  typewriter login")
	fmt.Println("  typewriter save --title 'Chapter One' --file draft.txt")
	fmt.Println("  typewriter list")
	fmt.Println("  typewriter share b692f5c0-2d88-4aa1-a9e1-13aa6e4976d5")
	fmt.Println("  typewriter --mode local save --title 'Offline draft' --file draft.txt")
	fmt.Println("  typewriter --server https://example.com login")
}

// readInput читает строку из stdin
func readInput(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// readPassword читает пароль без отображения на экране
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // Переход на новую строку после ввода пароля
	if err != nil {
		return "", err
	}
	return string(passwordBytes), nil
}
