package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iudanet/typewriter/internal/models"
	"github.com/iudanet/typewriter/pkg/api"
)

// contextKey тип ключей контекста, чтобы не пересекаться с другими пакетами
type contextKey string

// Context keys set by the auth middleware
const (
	UserIDKey contextKey = "user_id"
	EmailKey  contextKey = "email"
)

// GetUserID extracts the authenticated user id from the request context
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

// GetEmail extracts the authenticated user email from the request context
func GetEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(EmailKey).(string)
	return email, ok && email != ""
}

// sendJSON отправляет JSON ответ
func sendJSON(logger *slog.Logger, w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет JSON ответ с ошибкой
func sendError(logger *slog.Logger, w http.ResponseWriter, message string, statusCode int) {
	resp := api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	sendJSON(logger, w, resp, statusCode)
}

// userInfo строит безопасную проекцию пользователя для ответов
// Хеш пароля и google_id наружу не отдаются
func userInfo(user *models.User) api.UserInfo {
	return api.UserInfo{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		AvatarURL:     user.AvatarURL,
		EmailVerified: user.EmailVerified,
	}
}
