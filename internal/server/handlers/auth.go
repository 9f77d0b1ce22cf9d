package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/iudanet/typewriter/internal/models"
	"github.com/iudanet/typewriter/internal/server/mail"
	"github.com/iudanet/typewriter/internal/server/storage"
	"github.com/iudanet/typewriter/internal/validation"
	"github.com/iudanet/typewriter/pkg/api"
)

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	logger       *slog.Logger
	userStorage  storage.UserStorage
	tokenStorage storage.TokenStorage
	mailSender   mail.Sender
	tokenConfig  TokenConfig
	frontendURL  string
	devMode      bool
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(
	logger *slog.Logger,
	userStorage storage.UserStorage,
	tokenStorage storage.TokenStorage,
	mailSender mail.Sender,
	tokenConfig TokenConfig,
	frontendURL string,
	devMode bool,
) *AuthHandler {
	return &AuthHandler{
		logger:       logger,
		userStorage:  userStorage,
		tokenStorage: tokenStorage,
		mailSender:   mailSender,
		tokenConfig:  tokenConfig,
		frontendURL:  frontendURL,
		devMode:      devMode,
	}
}

// Register обрабатывает POST /auth/register
// Регистрация нового пользователя по email и паролю
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Парсим request body
	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode register request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	// Валидация входных данных
	if err := validation.ValidateEmail(req.Email); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateName(req.Name); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	// Хешируем пароль (bcrypt: медленный адаптивный хеш с солью)
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: string(hashed),
		Name:         req.Name,
		Provider:     models.ProviderEmail,
		CreatedAt:    time.Now(),
	}

	// Сохраняем в БД
	if err := h.userStorage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			h.logger.WarnContext(ctx, "email already registered", slog.String("email", req.Email))
			sendError(h.logger, w, "email already registered", http.StatusBadRequest)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	// Создаем токен подтверждения email и отправляем ссылку out-of-band
	h.sendVerificationLink(r, user)

	token, expiresIn, err := GenerateToken(h.tokenConfig, user.ID, user.Email)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user registered successfully",
		slog.String("email", user.Email),
		slog.String("user_id", user.ID))

	resp := api.AuthResponse{
		Token:     token,
		ExpiresIn: expiresIn,
		User:      userInfo(user),
	}

	sendJSON(h.logger, w, resp, http.StatusCreated)
}

// sendVerificationLink создает email verification token и передает ссылку
// в mail.Sender; ошибки здесь не прерывают регистрацию
func (h *AuthHandler) sendVerificationLink(r *http.Request, user *models.User) {
	ctx := r.Context()

	value, err := GenerateOpaqueToken()
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate verification token", slog.Any("error", err))
		return
	}

	token := &models.EmailVerificationToken{
		Token:     value,
		UserID:    user.ID,
		CreatedAt: time.Now(),
	}

	if err := h.tokenStorage.SaveVerificationToken(ctx, token); err != nil {
		h.logger.ErrorContext(ctx, "failed to save verification token", slog.Any("error", err))
		return
	}

	link := fmt.Sprintf("%s/verify-email/%s", h.frontendURL, value)
	if err := h.mailSender.Deliver(ctx, user.Email, link); err != nil {
		h.logger.ErrorContext(ctx, "failed to deliver verification link", slog.Any("error", err))
	}
}

// Login обрабатывает POST /auth/login
// Аутентификация по email и паролю
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode login request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		sendError(h.logger, w, "email and password are required", http.StatusBadRequest)
		return
	}

	// Получаем пользователя из БД
	// Отсутствие пользователя и неверный пароль дают одинаковый ответ,
	// чтобы не раскрывать существование аккаунта
	user, err := h.userStorage.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.logger.WarnContext(ctx, "login failed: user not found", slog.String("email", req.Email))
			sendError(h.logger, w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	// Проверяем пароль: bcrypt сравнивает за константное время
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		h.logger.WarnContext(ctx, "login failed: invalid password", slog.String("email", req.Email))
		sendError(h.logger, w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, expiresIn, err := GenerateToken(h.tokenConfig, user.ID, user.Email)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user logged in successfully",
		slog.String("email", user.Email),
		slog.String("user_id", user.ID))

	resp := api.AuthResponse{
		Token:     token,
		ExpiresIn: expiresIn,
		User:      userInfo(user),
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Verify обрабатывает GET /auth/verify
// Повторная проверка токена: возвращает свежую проекцию пользователя из БД
// Требует auth middleware
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.userStorage.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "user not found", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, api.VerifyResponse{User: userInfo(user)}, http.StatusOK)
}
