package service

import (
	"context"
	"time"

	"golang.org/x/oauth2"

	"spordle/internal/domain/round"
)

// Authorizer определяет интерфейс OAuth авторизации в Spotify
type Authorizer interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	NewUserClient(ctx context.Context, token *oauth2.Token) UserClient
}

// Player определяет интерфейс управления воспроизведением
type Player interface {
	ActiveDevice(ctx context.Context) (string, error)
	PlaySnippet(ctx context.Context, deviceID, uri string, duration time.Duration) error
}

// UserClient определяет клиента Spotify, действующего от имени пользователя
type UserClient interface {
	round.Catalogue
	Player
	Token() (*oauth2.Token, error)
}

// SettingsProvider возвращает актуальные игровые настройки
type SettingsProvider interface {
	Current() GameSettings
}
