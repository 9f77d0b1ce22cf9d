// Package api implements the HTTP client for the typewriter server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iudanet/typewriter/pkg/api"
)

// APIError represents an error response returned by the server
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовок Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// SetToken устанавливает bearer token для последующих запросов
func (c *Client) SetToken(token string) {
	c.token = token
}

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	if err := c.doRequest(ctx, http.MethodPost, "/auth/register", req, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login выполняет аутентификацию пользователя
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	if err := c.doRequest(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Verify проверяет текущий токен и возвращает свежие данные пользователя
func (c *Client) Verify(ctx context.Context) (*api.VerifyResponse, error) {
	var resp api.VerifyResponse
	if err := c.doRequest(ctx, http.MethodGet, "/auth/verify", nil, &resp); err != nil {
		return nil, fmt.Errorf("verify request failed: %w", err)
	}
	return &resp, nil
}

// RequestPasswordReset запрашивает ссылку сброса пароля
func (c *Client) RequestPasswordReset(ctx context.Context, email string) (*api.MessageResponse, error) {
	var resp api.MessageResponse
	if err := c.doRequest(ctx, http.MethodPost, "/auth/reset-password", api.ResetRequest{Email: email}, &resp); err != nil {
		return nil, fmt.Errorf("reset request failed: %w", err)
	}
	return &resp, nil
}

// ConfirmPasswordReset завершает сброс пароля по токену
func (c *Client) ConfirmPasswordReset(ctx context.Context, token, newPassword string) (*api.MessageResponse, error) {
	var resp api.MessageResponse
	req := api.ResetConfirmRequest{Token: token, NewPassword: newPassword}
	if err := c.doRequest(ctx, http.MethodPost, "/auth/reset-password/confirm", req, &resp); err != nil {
		return nil, fmt.Errorf("reset confirm request failed: %w", err)
	}
	return &resp, nil
}

// ListStories возвращает все истории пользователя
func (c *Client) ListStories(ctx context.Context) ([]api.StoryResponse, error) {
	var resp []api.StoryResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/stories", nil, &resp); err != nil {
		return nil, fmt.Errorf("list stories request failed: %w", err)
	}
	return resp, nil
}

// GetStory возвращает одну историю по id
func (c *Client) GetStory(ctx context.Context, storyID string) (*api.StoryResponse, error) {
	var resp api.StoryResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/stories/"+storyID, nil, &resp); err != nil {
		return nil, fmt.Errorf("get story request failed: %w", err)
	}
	return &resp, nil
}

// SaveStory создает или обновляет историю (upsert по id)
func (c *Client) SaveStory(ctx context.Context, req api.SaveStoryRequest) (*api.StoryResponse, error) {
	var resp api.StoryResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/stories", req, &resp); err != nil {
		return nil, fmt.Errorf("save story request failed: %w", err)
	}
	return &resp, nil
}

// DeleteStory удаляет историю
func (c *Client) DeleteStory(ctx context.Context, storyID string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/stories/"+storyID, nil, nil); err != nil {
		return fmt.Errorf("delete story request failed: %w", err)
	}
	return nil
}

// ShareStory публикует историю и возвращает публичную ссылку
func (c *Client) ShareStory(ctx context.Context, storyID string) (*api.ShareResponse, error) {
	var resp api.ShareResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/stories/"+storyID+"/share", nil, &resp); err != nil {
		return nil, fmt.Errorf("share story request failed: %w", err)
	}
	return &resp, nil
}

// GetSharedStory читает опубликованную историю без аутентификации
func (c *Client) GetSharedStory(ctx context.Context, shareID string) (*api.SharedStoryResponse, error) {
	var resp api.SharedStoryResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/stories/shared/"+shareID, nil, &resp); err != nil {
		return nil, fmt.Errorf("get shared story request failed: %w", err)
	}
	return &resp, nil
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Message}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	// Декодируем успешный ответ
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
