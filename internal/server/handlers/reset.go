package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iudanet/typewriter/internal/models"
	"github.com/iudanet/typewriter/internal/server/storage"
	"github.com/iudanet/typewriter/internal/validation"
	"github.com/iudanet/typewriter/pkg/api"
)

// resetTokenTTL срок действия токена сброса пароля
const resetTokenTTL = time.Hour

// resetGenericMessage единый ответ на запрос сброса — одинаковый для
// существующих и несуществующих аккаунтов
const resetGenericMessage = "If an account exists, a reset link has been sent"

// ResetRequest обрабатывает POST /auth/reset-password
// Запрос сброса пароля; ответ не раскрывает существование аккаунта
func (h *AuthHandler) ResetRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode reset request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" {
		sendError(h.logger, w, "email is required", http.StatusBadRequest)
		return
	}

	user, err := h.userStorage.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			// Тот же ответ, что и при успехе — защита от перечисления аккаунтов
			sendJSON(h.logger, w, api.MessageResponse{Message: resetGenericMessage}, http.StatusOK)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	value, err := GenerateOpaqueToken()
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate reset token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	token := &models.PasswordResetToken{
		Token:     value,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(resetTokenTTL),
		CreatedAt: time.Now(),
	}

	if err := h.tokenStorage.SaveResetToken(ctx, token); err != nil {
		h.logger.ErrorContext(ctx, "failed to save reset token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	link := fmt.Sprintf("%s/reset-password/%s", h.frontendURL, value)
	if err := h.mailSender.Deliver(ctx, user.Email, link); err != nil {
		h.logger.ErrorContext(ctx, "failed to deliver reset link", slog.Any("error", err))
	}

	h.logger.InfoContext(ctx, "password reset requested", slog.String("user_id", user.ID))

	resp := api.MessageResponse{Message: resetGenericMessage}
	if h.devMode {
		// Только для разработки: в проде ссылка уходит исключительно почтой
		resp.DevResetLink = link
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// ResetConfirm обрабатывает POST /auth/reset-password/confirm
// Потребляет токен сброса и устанавливает новый пароль
func (h *AuthHandler) ResetConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.ResetConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode reset confirm request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Token == "" {
		sendError(h.logger, w, "token is required", http.StatusBadRequest)
		return
	}
	if err := validation.ValidatePassword(req.NewPassword); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	token, err := h.tokenStorage.GetResetToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			sendError(h.logger, w, "invalid or expired reset token", http.StatusBadRequest)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get reset token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	// Проверяем срок действия
	if time.Now().After(token.ExpiresAt) {
		h.logger.WarnContext(ctx, "reset token expired", slog.String("user_id", token.UserID))
		sendError(h.logger, w, "invalid or expired reset token", http.StatusBadRequest)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.userStorage.UpdatePassword(ctx, token.UserID, string(hashed)); err != nil {
		h.logger.ErrorContext(ctx, "failed to update password", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	// Одноразовость токена обеспечивается удалением
	if err := h.tokenStorage.DeleteResetToken(ctx, req.Token); err != nil {
		h.logger.WarnContext(ctx, "failed to delete reset token", slog.Any("error", err))
	}

	h.logger.InfoContext(ctx, "password reset completed", slog.String("user_id", token.UserID))

	sendJSON(h.logger, w, api.MessageResponse{Message: "Password successfully reset"}, http.StatusOK)
}

// VerifyEmail обрабатывает GET /auth/verify-email/{token}
// Потребляет токен подтверждения и помечает email подтвержденным
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	value := r.PathValue("token")
	if value == "" {
		sendError(h.logger, w, "token is required", http.StatusBadRequest)
		return
	}

	token, err := h.tokenStorage.GetVerificationToken(ctx, value)
	if err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			sendError(h.logger, w, "invalid verification token", http.StatusBadRequest)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get verification token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.userStorage.MarkEmailVerified(ctx, token.UserID); err != nil {
		h.logger.ErrorContext(ctx, "failed to mark email verified", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.tokenStorage.DeleteVerificationToken(ctx, value); err != nil {
		h.logger.WarnContext(ctx, "failed to delete verification token", slog.Any("error", err))
	}

	h.logger.InfoContext(ctx, "email verified", slog.String("user_id", token.UserID))

	sendJSON(h.logger, w, api.MessageResponse{Message: "Email verified successfully"}, http.StatusOK)
}
