// Package repository содержит репозитории для работы с базой данных.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"spordle/internal/domain/round"
	"spordle/internal/model"
)

// SessionRepository реализует интерфейс для работы с игровыми сессиями
type SessionRepository struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewSessionRepository создает новый репозиторий игровых сессий
func NewSessionRepository(db *bun.DB, logger *zap.Logger) *SessionRepository {
	return &SessionRepository{
		db:     db,
		logger: logger,
	}
}

// Get возвращает сессию по ID
func (r *SessionRepository) Get(ctx context.Context, id string) (*model.GameSession, error) {
	session := new(model.GameSession)

	err := r.db.NewSelect().
		Model(session).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// Create создает новую сессию
func (r *SessionRepository) Create(ctx context.Context, session *model.GameSession) error {
	if session.UsedIDs == nil {
		session.UsedIDs = []string{}
	}

	_, err := r.db.NewInsert().
		Model(session).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	r.logger.Debug("Session created", zap.String("session_id", session.ID))
	return nil
}

// SetOAuthState сохраняет state параметр OAuth для сессии
func (r *SessionRepository) SetOAuthState(ctx context.Context, id, state string) error {
	res, err := r.db.NewUpdate().
		Model((*model.GameSession)(nil)).
		Set("oauth_state = ?", state).
		Set("updated_at = NOW()").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set oauth state: %w", err)
	}
	return requireAffected(res)
}

// Touch продлевает срок жизни сессии
func (r *SessionRepository) Touch(ctx context.Context, id string, expiresAt time.Time) error {
	res, err := r.db.NewUpdate().
		Model((*model.GameSession)(nil)).
		Set("expires_at = ?", expiresAt).
		Set("updated_at = NOW()").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return requireAffected(res)
}

// WithLock блокирует строку сессии, применяет fn к состоянию раундов и сохраняет результат.
// Если fn возвращает ошибку, состояние не меняется.
func (r *SessionRepository) WithLock(ctx context.Context, id string, fn model.RoundMutator) (round.State, error) {
	var result round.State

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		session := new(model.GameSession)
		err := tx.NewSelect().
			Model(session).
			Where("id = ?", id).
			For("UPDATE").
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return model.ErrSessionNotFound
			}
			return fmt.Errorf("failed to lock session: %w", err)
		}

		next, err := fn(session.RoundState())
		if err != nil {
			return err
		}
		session.ApplyRoundState(next)

		_, err = tx.NewUpdate().
			Model(session).
			Column("used_ids", "current_answer").
			Set("updated_at = NOW()").
			WherePK().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to save round state: %w", err)
		}

		result = session.RoundState()
		return nil
	})
	if err != nil {
		return round.State{}, err
	}

	return result, nil
}

// Delete удаляет сессию
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.NewDelete().
		Model((*model.GameSession)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired удаляет сессии с истекшим сроком жизни
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := r.db.NewDelete().
		Model((*model.GameSession)(nil)).
		Where("expires_at < ?", now).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	n, _ := res.RowsAffected()
	return int(n), nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return model.ErrSessionNotFound
	}
	return nil
}
