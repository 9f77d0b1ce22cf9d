// Package auth implements the client-side authentication flow: talking to
// the server's auth endpoints and keeping the session in local storage.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/typewriter/internal/client/api"
	"github.com/iudanet/typewriter/internal/client/storage"
	"github.com/iudanet/typewriter/internal/validation"
	pkgapi "github.com/iudanet/typewriter/pkg/api"
)

// ErrNotAuthenticated возвращается, когда локальная сессия отсутствует или истекла
var ErrNotAuthenticated = errors.New("not authenticated")

// Service предоставляет функции авторизации клиента
type Service struct {
	apiClient *api.Client
	authStore storage.AuthStorage
}

// NewService создает новый сервис авторизации
func NewService(apiClient *api.Client, authStore storage.AuthStorage) *Service {
	return &Service{
		apiClient: apiClient,
		authStore: authStore,
	}
}

// Session описывает текущую локальную сессию
type Session struct {
	UserID    string
	Email     string
	Name      string
	ExpiresAt time.Time
}

// Register регистрирует нового пользователя и сохраняет сессию
func (s *Service) Register(ctx context.Context, email, password, name string) (*Session, error) {
	// Валидация входных данных до обращения к серверу
	if err := validation.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("invalid email: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("invalid password: %w", err)
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, fmt.Errorf("invalid name: %w", err)
	}

	resp, err := s.apiClient.Register(ctx, pkgapi.RegisterRequest{
		Email:    email,
		Password: password,
		Name:     name,
	})
	if err != nil {
		return nil, err
	}

	return s.saveSession(ctx, resp)
}

// Login выполняет аутентификацию пользователя и сохраняет сессию
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	resp, err := s.apiClient.Login(ctx, pkgapi.LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	return s.saveSession(ctx, resp)
}

// Logout удаляет локальную сессию
// Отсутствие сессии не считается ошибкой
func (s *Service) Logout(ctx context.Context) error {
	s.apiClient.SetToken("")

	if err := s.authStore.DeleteAuth(ctx); err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return nil
		}
		return fmt.Errorf("failed to delete auth data: %w", err)
	}
	return nil
}

// Status возвращает текущую сессию
// Возвращает ErrNotAuthenticated, если сессии нет или токен истек
func (s *Service) Status(ctx context.Context) (*Session, error) {
	ok, err := s.authStore.IsAuthenticated(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check auth status: %w", err)
	}
	if !ok {
		return nil, ErrNotAuthenticated
	}

	auth, err := s.authStore.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("failed to get auth data: %w", err)
	}

	return sessionFromAuth(auth), nil
}

// RestoreSession загружает сохраненный токен в API клиент
// Вызывается перед любой аутентифицированной командой
func (s *Service) RestoreSession(ctx context.Context) (*Session, error) {
	session, err := s.Status(ctx)
	if err != nil {
		return nil, err
	}

	auth, err := s.authStore.GetAuth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get auth data: %w", err)
	}

	s.apiClient.SetToken(auth.Token)
	return session, nil
}

// RequestPasswordReset запрашивает ссылку сброса пароля
// Возвращаемая ссылка непуста только в dev-режиме сервера
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return "", fmt.Errorf("invalid email: %w", err)
	}

	resp, err := s.apiClient.RequestPasswordReset(ctx, email)
	if err != nil {
		return "", err
	}
	return resp.DevResetLink, nil
}

// ConfirmPasswordReset завершает сброс пароля по токену из письма
func (s *Service) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return fmt.Errorf("reset token is required")
	}
	if err := validation.ValidatePassword(newPassword); err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}

	_, err := s.apiClient.ConfirmPasswordReset(ctx, token, newPassword)
	return err
}

// saveSession сохраняет данные сессии и активирует токен в API клиенте
func (s *Service) saveSession(ctx context.Context, resp *pkgapi.AuthResponse) (*Session, error) {
	auth := &storage.AuthData{
		UserID:    resp.User.ID,
		Email:     resp.User.Email,
		Name:      resp.User.Name,
		Token:     resp.Token,
		ExpiresAt: time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second).Unix(),
	}

	if err := s.authStore.SaveAuth(ctx, auth); err != nil {
		return nil, fmt.Errorf("failed to save auth data: %w", err)
	}

	s.apiClient.SetToken(resp.Token)
	return sessionFromAuth(auth), nil
}

func sessionFromAuth(auth *storage.AuthData) *Session {
	return &Session{
		UserID:    auth.UserID,
		Email:     auth.Email,
		Name:      auth.Name,
		ExpiresAt: time.Unix(auth.ExpiresAt, 0),
	}
}
