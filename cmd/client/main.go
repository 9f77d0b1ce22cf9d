package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/iudanet/typewriter/internal/client/api"
	"github.com/iudanet/typewriter/internal/client/auth"
	"github.com/iudanet/typewriter/internal/client/cli"
	"github.com/iudanet/typewriter/internal/client/storage/boltdb"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "http://localhost:8080", "Server URL")
	dbPath := flag.String("db", "typewriter-client.db", "Path to local database")
	mode := flag.String("mode", cli.ModeRemote, "Storage mode: remote, local or postgres")
	databaseDSN := flag.String("dsn", "", "PostgreSQL DSN for postgres mode")
	frontendURL := flag.String("frontend", "http://localhost:5173", "Base URL for share links in local/postgres modes")

	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	// Получаем команду
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage()
		os.Exit(1)
	}

	command := args[0]

	if *mode == cli.ModePostgres && *databaseDSN == "" {
		fmt.Fprintln(os.Stderr, "Error: postgres mode requires --dsn")
		os.Exit(1)
	}

	// Создаем контекст
	ctx := context.Background()

	// Открываем BoltDB storage
	boltStorage, err := boltdb.New(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := boltStorage.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	// Создаем API клиент и сервис авторизации
	apiClient := api.NewClient(*serverURL)
	authService := auth.NewService(apiClient, boltStorage)

	opts := cli.Options{
		ServerURL:   *serverURL,
		Mode:        *mode,
		DatabaseDSN: *databaseDSN,
		FrontendURL: *frontendURL,
	}

	// Выполняем команду
	c := cli.New(opts, apiClient, authService, boltStorage)
	if err := c.Run(ctx, command, args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("Typewriter Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
