package models

import "time"

// Story представляет историю, принадлежащую одному пользователю
// Все изменения выполняются только по паре (ID, UserID) — это единственная
// проверка прав доступа в системе
type Story struct {
	ID        string    `json:"id"`      // UUID истории
	UserID    string    `json:"user_id"` // владелец
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	IsPublic  bool      `json:"is_public"`          // доступна ли по share_id
	ShareID   string    `json:"share_id,omitempty"` // публичный идентификатор (пустой пока история не опубликована)
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SharedStory представляет публичную проекцию опубликованной истории
// Намеренно не содержит владельца и изменяемых метаданных
type SharedStory struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Shared возвращает публичную проекцию истории
func (s *Story) Shared() *SharedStory {
	return &SharedStory{
		Title:     s.Title,
		Content:   s.Content,
		CreatedAt: s.CreatedAt,
	}
}
