// Package server wires storage, handlers and middleware into the HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/cors"

	"github.com/iudanet/typewriter/internal/server/config"
	"github.com/iudanet/typewriter/internal/server/handlers"
	"github.com/iudanet/typewriter/internal/server/mail"
	"github.com/iudanet/typewriter/internal/server/middleware"
	"github.com/iudanet/typewriter/internal/server/oauth"
	"github.com/iudanet/typewriter/internal/server/storage"
	"github.com/iudanet/typewriter/internal/server/storage/postgres"
	"github.com/iudanet/typewriter/internal/server/storage/sqlite"
)

// Storage объединяет все интересы сервера к хранилищу
type Storage interface {
	storage.UserStorage
	storage.TokenStorage
	storage.StoryStorage
	Ping(ctx context.Context) error
	Close() error
}

// tokenCleanupInterval период удаления протухших reset токенов
const tokenCleanupInterval = time.Hour

// shutdownTimeout время на дослуживание запросов при остановке
const shutdownTimeout = 10 * time.Second

// Server represents the typewriter HTTP server
type Server struct {
	logger     *slog.Logger
	cfg        *config.Config
	storage    Storage
	httpServer *http.Server
}

// New creates the server: opens storage by DSN, builds handlers and routes.
// The storage backend is selected by the DSN scheme: postgres:// goes to
// PostgreSQL, anything else is treated as a SQLite file path.
func New(ctx context.Context, logger *slog.Logger, cfg *config.Config, version string) (*Server, error) {
	var (
		store Storage
		err   error
	)

	if cfg.UsePostgres() {
		store, err = postgres.New(ctx, cfg.DatabaseDSN)
	} else {
		store, err = sqlite.New(ctx, cfg.DatabaseDSN)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	tokenConfig := handlers.TokenConfig{
		Secret: []byte(cfg.JWTSecret),
		TTL:    cfg.TokenTTL,
	}

	mailSender := mail.NewLogSender(logger)

	authHandler := handlers.NewAuthHandler(logger, store, store, mailSender, tokenConfig, cfg.FrontendURL, cfg.DevMode)
	storyHandler := handlers.NewStoryHandler(logger, store, cfg.FrontendURL)
	healthHandler := handlers.NewHealthHandler(logger, store, version)

	var oauthHandler *handlers.OAuthHandler
	if cfg.GoogleEnabled() {
		provider, err := oauth.NewGoogle(ctx, oauth.GoogleConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
		})
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to init google oauth: %w", err)
		}
		oauthHandler = handlers.NewOAuthHandler(logger, provider, store, tokenConfig, cfg.FrontendURL)
	} else {
		logger.Warn("google oauth is not configured, /auth/google routes disabled")
	}

	mux := http.NewServeMux()

	// Публичные маршруты
	mux.HandleFunc("POST /auth/register", authHandler.Register)
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.HandleFunc("POST /auth/reset-password", authHandler.ResetRequest)
	mux.HandleFunc("POST /auth/reset-password/confirm", authHandler.ResetConfirm)
	mux.HandleFunc("GET /auth/verify-email/{token}", authHandler.VerifyEmail)
	mux.HandleFunc("GET /api/stories/shared/{shareId}", storyHandler.GetShared)
	mux.HandleFunc("GET /api/health", healthHandler.Health)

	if oauthHandler != nil {
		mux.HandleFunc("GET /auth/google", oauthHandler.GoogleLogin)
		mux.HandleFunc("GET /auth/google/callback", oauthHandler.GoogleCallback)
	}

	// Маршруты, требующие bearer токен
	authMiddleware := middleware.AuthMiddleware(logger, tokenConfig)
	protected := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(h)
	}

	mux.Handle("GET /auth/verify", protected(authHandler.Verify))
	mux.Handle("GET /api/stories", protected(storyHandler.List))
	mux.Handle("POST /api/stories", protected(storyHandler.Save))
	mux.Handle("GET /api/stories/{id}", protected(storyHandler.Get))
	mux.Handle("DELETE /api/stories/{id}", protected(storyHandler.Delete))
	mux.Handle("POST /api/stories/{id}/share", protected(storyHandler.Share))

	// Цепочка middleware: recovery снаружи, затем логирование,
	// rate limiting и CORS
	corsMiddleware := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	rateLimits := []middleware.PrefixRateLimit{
		{Prefix: "/auth/", Rate: cfg.AuthRateLimit, Window: time.Minute},
	}

	var handler http.Handler = mux
	handler = corsMiddleware(handler)
	handler = middleware.RateLimitMiddleware(cfg.RateLimit, time.Minute, rateLimits, logger)(handler)
	handler = middleware.LoggingWithSkip(logger, []string{"/api/health"})(handler)
	handler = middleware.RecoveryMiddleware(logger)(handler)

	return &Server{
		logger:  logger,
		cfg:     cfg,
		storage: store,
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// Run starts the HTTP server and blocks until ctx is canceled
// or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("server listening", slog.String("addr", s.cfg.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Фоновая чистка протухших reset токенов
	go s.cleanupExpiredTokens(ctx)

	select {
	case err := <-errCh:
		s.storage.Close()
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("graceful shutdown failed", slog.Any("error", err))
	}

	if err := s.storage.Close(); err != nil {
		s.logger.Error("failed to close storage", slog.Any("error", err))
	}

	return nil
}

// cleanupExpiredTokens периодически удаляет истекшие reset токены
func (s *Server) cleanupExpiredTokens(ctx context.Context) {
	ticker := time.NewTicker(tokenCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			count, err := s.storage.DeleteExpiredResetTokens(ctx)
			if err != nil {
				s.logger.Error("failed to cleanup expired reset tokens", slog.Any("error", err))
				continue
			}
			if count > 0 {
				s.logger.Info("expired reset tokens removed", slog.Int("count", count))
			}
		case <-ctx.Done():
			return
		}
	}
}
