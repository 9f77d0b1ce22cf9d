package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/typewriter/internal/models"
	"github.com/iudanet/typewriter/internal/server/oauth"
	"github.com/iudanet/typewriter/internal/server/storage"
)

// stateCookieName имя cookie с anti-CSRF state для OAuth flow
const stateCookieName = "oauth_state"

// stateCookieTTL время жизни state cookie; flow дольше не живет
const stateCookieTTL = 10 * time.Minute

// errEmailTaken: email занят аккаунтом с другим способом входа
var errEmailTaken = errors.New("email already registered")

// GoogleProvider is the part of the OAuth flow the handler depends on
type GoogleProvider interface {
	LoginURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth.User, error)
}

// OAuthHandler обрабатывает Google OAuth flow
type OAuthHandler struct {
	logger      *slog.Logger
	provider    GoogleProvider
	userStorage storage.UserStorage
	tokenConfig TokenConfig
	frontendURL string
}

// NewOAuthHandler создает новый handler для OAuth
func NewOAuthHandler(
	logger *slog.Logger,
	provider GoogleProvider,
	userStorage storage.UserStorage,
	tokenConfig TokenConfig,
	frontendURL string,
) *OAuthHandler {
	return &OAuthHandler{
		logger:      logger,
		provider:    provider,
		userStorage: userStorage,
		tokenConfig: tokenConfig,
		frontendURL: frontendURL,
	}
}

// GoogleLogin обрабатывает GET /auth/google
// Кладет state в HttpOnly cookie и уводит браузер на consent screen
func (h *OAuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	state, err := GenerateOpaqueToken()
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate oauth state", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int(stateCookieTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.provider.LoginURL(state), http.StatusFound)
}

// GoogleCallback обрабатывает GET /auth/google/callback
// Сверяет state, обменивает код и редиректит на frontend с JWT в query
func (h *OAuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Сверяем state из query со значением в cookie
	cookie, err := r.Cookie(stateCookieName)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		h.logger.WarnContext(ctx, "oauth callback with invalid state")
		h.redirectError(w, r, "invalid oauth state")
		return
	}

	// Cookie одноразовая
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		h.logger.WarnContext(ctx, "oauth callback without code",
			slog.String("provider_error", r.URL.Query().Get("error")))
		h.redirectError(w, r, "authorization was denied")
		return
	}

	identity, err := h.provider.Exchange(ctx, code)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to exchange oauth code", slog.Any("error", err))
		h.redirectError(w, r, "authentication failed")
		return
	}

	user, err := h.findOrCreateUser(ctx, identity)
	if err != nil {
		if errors.Is(err, errEmailTaken) {
			h.logger.WarnContext(ctx, "oauth email already registered",
				slog.String("email", identity.Email))
			h.redirectError(w, r, "email is already registered with a different login method")
			return
		}
		h.logger.ErrorContext(ctx, "failed to resolve oauth user", slog.Any("error", err))
		h.redirectError(w, r, "authentication failed")
		return
	}

	token, _, err := GenerateToken(h.tokenConfig, user.ID, user.Email)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate token", slog.Any("error", err))
		h.redirectError(w, r, "authentication failed")
		return
	}

	h.logger.InfoContext(ctx, "user logged in via google",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email))

	http.Redirect(w, r,
		fmt.Sprintf("%s/auth/success?token=%s", h.frontendURL, url.QueryEscape(token)),
		http.StatusFound)
}

// findOrCreateUser находит пользователя по google id, иначе создает нового
func (h *OAuthHandler) findOrCreateUser(ctx context.Context, identity *oauth.User) (*models.User, error) {
	user, err := h.userStorage.GetUserByGoogleID(ctx, identity.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		return nil, err
	}

	user = &models.User{
		ID:            uuid.New().String(),
		Email:         identity.Email,
		GoogleID:      identity.ID,
		Name:          identity.Name,
		AvatarURL:     identity.AvatarURL,
		Provider:      models.ProviderGoogle,
		EmailVerified: identity.EmailVerified,
		CreatedAt:     time.Now(),
	}

	if err := h.userStorage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			// Email уже зарегистрирован через пароль; аккаунты не связываем
			return nil, errEmailTaken
		}
		return nil, err
	}

	h.logger.InfoContext(ctx, "user created via google",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email))

	return user, nil
}

// redirectError уводит браузер на страницу ошибки frontend
func (h *OAuthHandler) redirectError(w http.ResponseWriter, r *http.Request, reason string) {
	http.Redirect(w, r,
		fmt.Sprintf("%s/auth/error?message=%s", h.frontendURL, url.QueryEscape(reason)),
		http.StatusFound)
}
