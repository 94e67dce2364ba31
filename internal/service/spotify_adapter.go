package service

import (
	"context"
	"errors"

	"golang.org/x/oauth2"

	gateway "spordle/internal/gateway/spotify"
)

// SpotifyAdapter адаптирует аутентификатор из gateway слоя к интерфейсу Authorizer
type SpotifyAdapter struct {
	auth *gateway.Authenticator
}

// NewSpotifyAdapter создает новый адаптер для Spotify
func NewSpotifyAdapter(auth *gateway.Authenticator) Authorizer {
	return &SpotifyAdapter{auth: auth}
}

// AuthURL возвращает адрес страницы авторизации
func (a *SpotifyAdapter) AuthURL(state string) string {
	return a.auth.AuthURL(state)
}

// Exchange обменивает код авторизации на токен
func (a *SpotifyAdapter) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return a.auth.Exchange(ctx, code)
}

// NewUserClient создает клиента пользователя
func (a *SpotifyAdapter) NewUserClient(ctx context.Context, token *oauth2.Token) UserClient {
	return &userClientAdapter{UserClient: a.auth.NewUserClient(ctx, token)}
}

// userClientAdapter переводит ошибки gateway слоя в ошибки сервиса
type userClientAdapter struct {
	*gateway.UserClient
}

// ActiveDevice возвращает ID активного устройства
func (c *userClientAdapter) ActiveDevice(ctx context.Context) (string, error) {
	id, err := c.UserClient.ActiveDevice(ctx)
	if errors.Is(err, gateway.ErrNoActiveDevice) {
		return "", ErrNoActiveDevice
	}
	return id, err
}
