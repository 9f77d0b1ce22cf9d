package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/typewriter/internal/server/config"
	"github.com/iudanet/typewriter/pkg/api"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDSN = ":memory:"
	cfg.JWTSecret = "test-secret"
	cfg.TokenTTL = time.Hour
	// Высокие лимиты, чтобы тест не упирался в rate limiter
	cfg.RateLimit = 10000
	cfg.AuthRateLimit = 10000

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv, err := New(context.Background(), logger, cfg, "test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.storage.Close() })

	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, ts *httptest.Server, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestServer_FullFlow(t *testing.T) {
	ts := setupTestServer(t)

	// Регистрация
	resp, body := doJSON(t, ts, http.MethodPost, "/auth/register", "", api.RegisterRequest{
		Email:    "writer@example.com",
		Password: "password123",
		Name:     "Writer",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var authResp api.AuthResponse
	require.NoError(t, json.Unmarshal(body, &authResp))
	require.NotEmpty(t, authResp.Token)

	// Логин тем же паролем
	resp, body = doJSON(t, ts, http.MethodPost, "/auth/login", "", api.LoginRequest{
		Email:    "writer@example.com",
		Password: "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &authResp))
	token := authResp.Token

	// Проверка токена
	resp, body = doJSON(t, ts, http.MethodGet, "/auth/verify", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	// Создание истории
	resp, body = doJSON(t, ts, http.MethodPost, "/api/stories", token, api.SaveStoryRequest{
		Title:   "Chapter One",
		Content: "It was a dark and stormy night.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var story api.StoryResponse
	require.NoError(t, json.Unmarshal(body, &story))
	require.NotEmpty(t, story.ID)

	// Список историй
	resp, body = doJSON(t, ts, http.MethodGet, "/api/stories", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var stories []api.StoryResponse
	require.NoError(t, json.Unmarshal(body, &stories))
	require.Len(t, stories, 1)
	assert.Equal(t, story.ID, stories[0].ID)

	// Публикация
	resp, body = doJSON(t, ts, http.MethodPost, "/api/stories/"+story.ID+"/share", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var shared api.ShareResponse
	require.NoError(t, json.Unmarshal(body, &shared))
	require.NotEmpty(t, shared.ShareID)
	assert.Contains(t, shared.ShareURL, shared.ShareID)

	// Публичное чтение без токена
	resp, body = doJSON(t, ts, http.MethodGet, "/api/stories/shared/"+shared.ShareID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var sharedStory api.SharedStoryResponse
	require.NoError(t, json.Unmarshal(body, &sharedStory))
	assert.Equal(t, "Chapter One", sharedStory.Title)
	assert.Equal(t, "It was a dark and stormy night.", sharedStory.Content)

	// Удаление
	resp, body = doJSON(t, ts, http.MethodDelete, "/api/stories/"+story.ID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	// После удаления публичная ссылка мертва
	resp, _ = doJSON(t, ts, http.MethodGet, "/api/stories/shared/"+shared.ShareID, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_ProtectedRoutesRequireToken(t *testing.T) {
	ts := setupTestServer(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/stories"},
		{http.MethodPost, "/api/stories"},
		{http.MethodGet, "/api/stories/some-id"},
		{http.MethodDelete, "/api/stories/some-id"},
		{http.MethodPost, "/api/stories/some-id/share"},
		{http.MethodGet, "/auth/verify"},
	}

	for _, tt := range paths {
		resp, _ := doJSON(t, ts, tt.method, tt.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", tt.method, tt.path)
	}
}

func TestServer_Health(t *testing.T) {
	ts := setupTestServer(t)

	resp, body := doJSON(t, ts, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"ok"`)
}

func TestServer_PasswordResetFlow(t *testing.T) {
	ts := setupTestServer(t)

	// Регистрация
	resp, body := doJSON(t, ts, http.MethodPost, "/auth/register", "", api.RegisterRequest{
		Email:    "writer@example.com",
		Password: "password123",
		Name:     "Writer",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	// Запрос сброса: dev mode по умолчанию отдает ссылку в ответе
	resp, body = doJSON(t, ts, http.MethodPost, "/auth/reset-password", "", api.ResetRequest{
		Email: "writer@example.com",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var msg api.MessageResponse
	require.NoError(t, json.Unmarshal(body, &msg))
	require.NotEmpty(t, msg.DevResetLink)

	// Токен — последний сегмент ссылки
	tokenValue := msg.DevResetLink[len(msg.DevResetLink)-64:]

	// Подтверждение сброса
	resp, body = doJSON(t, ts, http.MethodPost, "/auth/reset-password/confirm", "", api.ResetConfirmRequest{
		Token:       tokenValue,
		NewPassword: "newpassword456",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	// Старый пароль больше не работает
	resp, _ = doJSON(t, ts, http.MethodPost, "/auth/login", "", api.LoginRequest{
		Email:    "writer@example.com",
		Password: "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Новый работает
	resp, _ = doJSON(t, ts, http.MethodPost, "/auth/login", "", api.LoginRequest{
		Email:    "writer@example.com",
		Password: "newpassword456",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
