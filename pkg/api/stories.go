package api

import "time"

// SaveStoryRequest представляет запрос на создание или обновление истории
// Если ID пустой — создается новая история
type SaveStoryRequest struct {
	ID      string `json:"id,omitempty"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// StoryResponse представляет историю в ответе сервера
type StoryResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	IsPublic  bool      `json:"is_public"`
	ShareID   string    `json:"share_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ShareResponse представляет ответ на публикацию истории
type ShareResponse struct {
	StoryResponse
	ShareURL string `json:"share_url"` // полный URL для чтения истории
}

// SharedStoryResponse представляет публичную проекцию опубликованной истории
// Поля ограничены намеренно: владелец и изменяемые метаданные не раскрываются
type SharedStoryResponse struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
