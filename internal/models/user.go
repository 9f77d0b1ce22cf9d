package models

import "time"

// Auth providers supported by the service
const (
	ProviderEmail  = "email"
	ProviderGoogle = "google"
)

// User представляет пользователя в системе
type User struct {
	ID            string    `json:"id"`             // UUID пользователя
	Email         string    `json:"email"`          // уникальный email
	PasswordHash  string    `json:"-"`              // bcrypt хеш пароля (пустой для OAuth пользователей)
	GoogleID      string    `json:"-"`              // идентификатор Google аккаунта (пустой для email пользователей)
	Name          string    `json:"name,omitempty"` // отображаемое имя
	AvatarURL     string    `json:"avatar_url,omitempty"`
	Provider      string    `json:"provider"`       // "email" или "google"
	EmailVerified bool      `json:"email_verified"` // подтвержден ли email
	CreatedAt     time.Time `json:"created_at"`     // время создания
}

// PasswordResetToken представляет одноразовый токен сброса пароля
// Токен удаляется сразу после успешного использования
type PasswordResetToken struct {
	Token     string    `json:"token"`      // случайные 32 байта, hex
	UserID    string    `json:"user_id"`    // владелец токена
	ExpiresAt time.Time `json:"expires_at"` // срок действия (1 час)
	CreatedAt time.Time `json:"created_at"`
}

// EmailVerificationToken представляет одноразовый токен подтверждения email
type EmailVerificationToken struct {
	Token     string    `json:"token"`   // случайные 32 байта, hex
	UserID    string    `json:"user_id"` // владелец токена
	CreatedAt time.Time `json:"created_at"`
}
