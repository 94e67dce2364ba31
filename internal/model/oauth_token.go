// Package model содержит модели данных.
//
// Группа: ENTITIES - Основные сущности
// Содержит: OAuthToken, TokenRepository
package model

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"golang.org/x/oauth2"
)

// OAuthToken представляет OAuth токен Spotify, привязанный к игровой сессии
type OAuthToken struct {
	bun.BaseModel `bun:"table:oauth_tokens,alias:ot"`

	SessionID    string    `bun:"session_id,pk,type:uuid" json:"session_id"`
	AccessToken  string    `bun:"access_token,notnull" json:"-"`
	RefreshToken string    `bun:"refresh_token" json:"-"`
	TokenType    string    `bun:"token_type" json:"token_type"`
	Expiry       time.Time `bun:"expiry" json:"expiry"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// NewOAuthToken создает модель из токена oauth2
func NewOAuthToken(sessionID string, token *oauth2.Token) *OAuthToken {
	return &OAuthToken{
		SessionID:    sessionID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Expiry:       token.Expiry,
	}
}

// Token возвращает токен oauth2
func (t *OAuthToken) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		Expiry:       t.Expiry,
	}
}

// TokenRepository определяет интерфейс для работы с токенами
type TokenRepository interface {
	Get(ctx context.Context, sessionID string) (*OAuthToken, error)
	Save(ctx context.Context, token *OAuthToken) error
	Delete(ctx context.Context, sessionID string) error
	DeleteOrphaned(ctx context.Context) (int, error)
}
