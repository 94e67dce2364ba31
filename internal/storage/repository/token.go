package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"spordle/internal/model"
)

// TokenRepository реализует интерфейс для работы с OAuth токенами
type TokenRepository struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewTokenRepository создает новый репозиторий токенов
func NewTokenRepository(db *bun.DB, logger *zap.Logger) *TokenRepository {
	return &TokenRepository{
		db:     db,
		logger: logger,
	}
}

// Get возвращает токен сессии или nil, если его нет
func (r *TokenRepository) Get(ctx context.Context, sessionID string) (*model.OAuthToken, error) {
	token := new(model.OAuthToken)

	err := r.db.NewSelect().
		Model(token).
		Where("session_id = ?", sessionID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	return token, nil
}

// Save создает или обновляет токен сессии
func (r *TokenRepository) Save(ctx context.Context, token *model.OAuthToken) error {
	_, err := r.db.NewInsert().
		Model(token).
		On("CONFLICT (session_id) DO UPDATE").
		Set("access_token = EXCLUDED.access_token").
		Set("refresh_token = COALESCE(NULLIF(EXCLUDED.refresh_token, ''), ot.refresh_token)").
		Set("token_type = EXCLUDED.token_type").
		Set("expiry = EXCLUDED.expiry").
		Set("updated_at = NOW()").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	r.logger.Debug("Token saved",
		zap.String("session_id", token.SessionID),
		zap.Time("expiry", token.Expiry))
	return nil
}

// Delete удаляет токен сессии
func (r *TokenRepository) Delete(ctx context.Context, sessionID string) error {
	_, err := r.db.NewDelete().
		Model((*model.OAuthToken)(nil)).
		Where("session_id = ?", sessionID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

// DeleteOrphaned удаляет токены сессий, которых больше нет
func (r *TokenRepository) DeleteOrphaned(ctx context.Context) (int, error) {
	sessions := r.db.NewSelect().
		Model((*model.GameSession)(nil)).
		Column("id")

	res, err := r.db.NewDelete().
		Model((*model.OAuthToken)(nil)).
		Where("session_id NOT IN (?)", sessions).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete orphaned tokens: %w", err)
	}

	n, _ := res.RowsAffected()
	return int(n), nil
}
