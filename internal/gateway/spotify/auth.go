// Package spotify реализует клиент Spotify Web API от имени пользователя:
// OAuth авторизацию, источники кандидатов и управление воспроизведением.
package spotify

import (
	"context"
	"fmt"
	"time"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Scopes - права, нужные для игры: чтение истории и управление плеером
var Scopes = []string{
	spotifyauth.ScopeUserReadPlaybackState,
	spotifyauth.ScopeUserModifyPlaybackState,
	spotifyauth.ScopeUserReadCurrentlyPlaying,
	spotifyauth.ScopeUserTopRead,
	spotifyauth.ScopeUserReadRecentlyPlayed,
}

// AuthConfig представляет настройки OAuth приложения
type AuthConfig struct {
	ClientID       string
	ClientSecret   string
	RedirectURL    string
	RequestTimeout time.Duration
	Retry          RetryConfig
}

// Authenticator выполняет OAuth Authorization Code Flow и создает клиентов пользователей
type Authenticator struct {
	auth    *spotifyauth.Authenticator
	timeout time.Duration
	retry   RetryConfig
	logger  *zap.Logger
}

// NewAuthenticator создает новый OAuth аутентификатор
func NewAuthenticator(cfg AuthConfig, logger *zap.Logger) (*Authenticator, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("spotify client ID and secret are required")
	}
	if cfg.RedirectURL == "" {
		return nil, fmt.Errorf("spotify redirect URL is required")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}

	auth := spotifyauth.New(
		spotifyauth.WithClientID(cfg.ClientID),
		spotifyauth.WithClientSecret(cfg.ClientSecret),
		spotifyauth.WithRedirectURL(cfg.RedirectURL),
		spotifyauth.WithScopes(Scopes...),
	)

	logger.Info("Spotify authenticator created", zap.String("redirect_url", cfg.RedirectURL))

	return &Authenticator{
		auth:    auth,
		timeout: cfg.RequestTimeout,
		retry:   cfg.Retry,
		logger:  logger,
	}, nil
}

// AuthURL возвращает адрес страницы авторизации Spotify
func (a *Authenticator) AuthURL(state string) string {
	return a.auth.AuthURL(state)
}

// Exchange обменивает код авторизации на токен
func (a *Authenticator) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	token, err := a.auth.Exchange(ctx, code)
	if err != nil {
		return nil, classify("exchange code", err)
	}
	return token, nil
}

// NewUserClient создает клиента, действующего от имени пользователя.
// Токен обновляется автоматически; актуальный токен доступен через Token.
func (a *Authenticator) NewUserClient(ctx context.Context, token *oauth2.Token) *UserClient {
	httpClient := a.auth.Client(ctx, token)
	return newUserClient(spotify.New(httpClient), a.timeout, a.retry, a.logger)
}
