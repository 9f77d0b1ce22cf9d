package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/stories", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	logged := buf.String()
	assert.Contains(t, logged, "HTTP request")
	assert.Contains(t, logged, "method=POST")
	assert.Contains(t, logged, "path=/api/stories")
	assert.Contains(t, logged, "status=201")
}

func TestLoggingMiddleware_ErrorLevels(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		level      string
	}{
		{"success is info", http.StatusOK, "level=INFO"},
		{"client error is warn", http.StatusBadRequest, "level=WARN"},
		{"server error is error", http.StatusInternalServerError, "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/stories", nil)
			handler.ServeHTTP(httptest.NewRecorder(), req)

			assert.Contains(t, buf.String(), tt.level)
		})
	}
}

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{
			name:     "verify email token masked",
			path:     "/auth/verify-email/abc123def456",
			expected: "/auth/verify-email/***",
		},
		{
			name:     "reset password token masked",
			path:     "/reset-password/secrettoken",
			expected: "/reset-password/***",
		},
		{
			name:     "reset password without token unchanged",
			path:     "/auth/reset-password",
			expected: "/auth/reset-password",
		},
		{
			name:     "regular path unchanged",
			path:     "/api/stories/story1",
			expected: "/api/stories/story1",
		},
		{
			name:     "shared path unchanged",
			path:     "/api/stories/shared/abc123",
			expected: "/api/stories/shared/abc123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizePath(tt.path))
		})
	}
}

func TestLoggingMiddleware_MasksTokenInPath(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/auth/verify-email/supersecret", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	logged := buf.String()
	assert.NotContains(t, logged, "supersecret")
	assert.Contains(t, logged, "/auth/verify-email/***")
}

func TestLoggingWithSkip(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := LoggingWithSkip(logger, []string{"/api/health"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Health check не логируется
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Empty(t, buf.String())

	// Остальные пути логируются
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/stories", nil))
	assert.Contains(t, buf.String(), "path=/api/stories")
}

func TestResponseWriter_CapturesStatusAndBytes(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusTeapot)
	n, err := rw.Write([]byte("hello"))

	assert.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, http.StatusTeapot, rw.statusCode)
	assert.Equal(t, int64(5), rw.written)
}
