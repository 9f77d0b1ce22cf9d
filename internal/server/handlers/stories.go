package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/typewriter/internal/models"
	"github.com/iudanet/typewriter/internal/server/storage"
	"github.com/iudanet/typewriter/internal/shareid"
	"github.com/iudanet/typewriter/pkg/api"
)

// shareIDAttempts число повторов генерации share id при коллизии
const shareIDAttempts = 3

// StoryHandler обрабатывает запросы к историям
type StoryHandler struct {
	logger       *slog.Logger
	storyStorage storage.StoryStorage
	frontendURL  string
}

// NewStoryHandler создает новый handler для историй
func NewStoryHandler(logger *slog.Logger, storyStorage storage.StoryStorage, frontendURL string) *StoryHandler {
	return &StoryHandler{
		logger:       logger,
		storyStorage: storyStorage,
		frontendURL:  frontendURL,
	}
}

// ownerID извлекает идентификатор пользователя, установленный auth middleware
func (h *StoryHandler) ownerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

// List обрабатывает GET /api/stories
// Возвращает истории пользователя, сначала недавно обновленные
func (h *StoryHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	stories, err := h.storyStorage.ListStories(ctx, ownerID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list stories", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	// Пустой список сериализуем как [], а не null
	resp := make([]api.StoryResponse, 0, len(stories))
	for _, story := range stories {
		resp = append(resp, storyResponse(story))
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Get обрабатывает GET /api/stories/{id}
func (h *StoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	storyID := r.PathValue("id")
	if storyID == "" {
		sendError(h.logger, w, "story id is required", http.StatusBadRequest)
		return
	}

	story, err := h.storyStorage.GetStory(ctx, storyID, ownerID)
	if err != nil {
		if errors.Is(err, storage.ErrStoryNotFound) {
			sendError(h.logger, w, "story not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get story", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, storyResponse(story), http.StatusOK)
}

// Save обрабатывает POST /api/stories
// Upsert: с id — обновление своей истории, без id — создание новой
func (h *StoryHandler) Save(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	var req api.SaveStoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode save request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	// Обязательные поля
	if req.Title == "" || req.Content == "" {
		sendError(h.logger, w, "title and content are required", http.StatusBadRequest)
		return
	}

	now := time.Now()

	if req.ID != "" {
		// Обновление существующей истории; пара (id, owner) — единственная
		// проверка прав доступа
		story := &models.Story{
			ID:        req.ID,
			UserID:    ownerID,
			Title:     req.Title,
			Content:   req.Content,
			UpdatedAt: now,
		}

		if err := h.storyStorage.UpdateStory(ctx, story); err != nil {
			if errors.Is(err, storage.ErrStoryNotFound) {
				sendError(h.logger, w, "story not found", http.StatusNotFound)
				return
			}
			h.logger.ErrorContext(ctx, "failed to update story", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
			return
		}

		updated, err := h.storyStorage.GetStory(ctx, req.ID, ownerID)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to reload story", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
			return
		}

		sendJSON(h.logger, w, storyResponse(updated), http.StatusOK)
		return
	}

	// Создание новой истории
	story := &models.Story{
		ID:        uuid.New().String(),
		UserID:    ownerID,
		Title:     req.Title,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.storyStorage.CreateStory(ctx, story); err != nil {
		h.logger.ErrorContext(ctx, "failed to create story", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "story created",
		slog.String("story_id", story.ID),
		slog.String("user_id", ownerID))

	sendJSON(h.logger, w, storyResponse(story), http.StatusCreated)
}

// Delete обрабатывает DELETE /api/stories/{id}
// Удаление чужой или несуществующей истории — успешный no-op
func (h *StoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	storyID := r.PathValue("id")
	if storyID == "" {
		sendError(h.logger, w, "story id is required", http.StatusBadRequest)
		return
	}

	if err := h.storyStorage.DeleteStory(ctx, storyID, ownerID); err != nil {
		h.logger.ErrorContext(ctx, "failed to delete story", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, api.MessageResponse{Message: "Story deleted successfully"}, http.StatusOK)
}

// Share обрабатывает POST /api/stories/{id}/share
// Публикует историю под новым share id и возвращает публичный URL
func (h *StoryHandler) Share(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	storyID := r.PathValue("id")
	if storyID == "" {
		sendError(h.logger, w, "story id is required", http.StatusBadRequest)
		return
	}

	// Повторяем генерацию при коллизии share id с другой историей
	var story *models.Story
	for attempt := 0; attempt < shareIDAttempts; attempt++ {
		shareID, err := shareid.New()
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to generate share id", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
			return
		}

		story, err = h.storyStorage.PublishStory(ctx, storyID, ownerID, shareID)
		if err == nil {
			break
		}
		if errors.Is(err, storage.ErrShareIDTaken) {
			h.logger.WarnContext(ctx, "share id collision, retrying", slog.Int("attempt", attempt+1))
			story = nil
			continue
		}
		if errors.Is(err, storage.ErrStoryNotFound) {
			sendError(h.logger, w, "story not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to share story", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if story == nil {
		h.logger.ErrorContext(ctx, "failed to share story: share id space exhausted")
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "story shared",
		slog.String("story_id", story.ID),
		slog.String("share_id", story.ShareID))

	resp := api.ShareResponse{
		StoryResponse: storyResponse(story),
		ShareURL:      fmt.Sprintf("%s/share/%s", h.frontendURL, story.ShareID),
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// GetShared обрабатывает GET /api/stories/shared/{shareId}
// Публичное чтение без аутентификации; отдается усеченная проекция
func (h *StoryHandler) GetShared(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	shareID := r.PathValue("shareId")
	if shareID == "" {
		sendError(h.logger, w, "share id is required", http.StatusBadRequest)
		return
	}

	story, err := h.storyStorage.GetSharedStory(ctx, shareID)
	if err != nil {
		if errors.Is(err, storage.ErrStoryNotFound) {
			sendError(h.logger, w, "shared story not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get shared story", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	shared := story.Shared()
	resp := api.SharedStoryResponse{
		Title:     shared.Title,
		Content:   shared.Content,
		CreatedAt: shared.CreatedAt,
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// storyResponse строит ответ API из модели истории
func storyResponse(story *models.Story) api.StoryResponse {
	return api.StoryResponse{
		ID:        story.ID,
		Title:     story.Title,
		Content:   story.Content,
		IsPublic:  story.IsPublic,
		ShareID:   story.ShareID,
		CreatedAt: story.CreatedAt,
		UpdatedAt: story.UpdatedAt,
	}
}
