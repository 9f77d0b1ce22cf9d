// Package api contains wire types shared by the server and the client.
package api

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Email    string `json:"email"`          // email пользователя
	Password string `json:"password"`       // пароль в открытом виде (передается только по TLS)
	Name     string `json:"name,omitempty"` // отображаемое имя (опционально)
}

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserInfo представляет безопасную проекцию пользователя
// Никогда не содержит хеш пароля
type UserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name,omitempty"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	EmailVerified bool   `json:"email_verified"`
}

// AuthResponse представляет ответ с токеном доступа и данными пользователя
type AuthResponse struct {
	Token     string   `json:"token"`      // JWT bearer token
	ExpiresIn int64    `json:"expires_in"` // время жизни токена в секундах
	User      UserInfo `json:"user"`
}

// VerifyResponse представляет ответ на повторную проверку токена
type VerifyResponse struct {
	User UserInfo `json:"user"`
}

// ResetRequest представляет запрос на сброс пароля
type ResetRequest struct {
	Email string `json:"email"`
}

// ResetConfirmRequest представляет подтверждение сброса пароля
type ResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// MessageResponse представляет ответ с информационным сообщением
type MessageResponse struct {
	Message string `json:"message"`
	// DevResetLink возвращается только в dev-режиме сервера,
	// когда реальная доставка почты не настроена
	DevResetLink string `json:"dev_reset_link,omitempty"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
