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

// StatsRepository реализует интерфейс для работы со статистикой попыток
type StatsRepository struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewStatsRepository создает новый репозиторий статистики
func NewStatsRepository(db *bun.DB, logger *zap.Logger) *StatsRepository {
	return &StatsRepository{
		db:     db,
		logger: logger,
	}
}

// Get возвращает статистику сессии; для новой сессии возвращаются нули
func (r *StatsRepository) Get(ctx context.Context, sessionID string) (*model.GuessStats, error) {
	stats := &model.GuessStats{SessionID: sessionID}

	err := r.db.NewSelect().
		Model(stats).
		WherePK().
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &model.GuessStats{SessionID: sessionID}, nil
		}
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	return stats, nil
}

// RecordRound увеличивает счетчик выданных раундов
func (r *StatsRepository) RecordRound(ctx context.Context, sessionID string) error {
	_, err := r.db.NewInsert().
		Model(&model.GuessStats{SessionID: sessionID, Rounds: 1}).
		On("CONFLICT (session_id) DO UPDATE").
		Set("rounds = gs.rounds + 1").
		Set("updated_at = NOW()").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to record round: %w", err)
	}
	return nil
}

// RecordAttempt увеличивает счетчик попыток и, если попытка принята, счетчик угаданных
func (r *StatsRepository) RecordAttempt(ctx context.Context, sessionID string, accepted bool) error {
	correct := 0
	if accepted {
		correct = 1
	}

	_, err := r.db.NewInsert().
		Model(&model.GuessStats{SessionID: sessionID, Attempts: 1, Correct: correct}).
		On("CONFLICT (session_id) DO UPDATE").
		Set("attempts = gs.attempts + 1").
		Set("correct = gs.correct + EXCLUDED.correct").
		Set("updated_at = NOW()").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}

	r.logger.Debug("Guess attempt recorded",
		zap.String("session_id", sessionID),
		zap.Bool("accepted", accepted))
	return nil
}

// Delete удаляет статистику сессии
func (r *StatsRepository) Delete(ctx context.Context, sessionID string) error {
	_, err := r.db.NewDelete().
		Model((*model.GuessStats)(nil)).
		Where("session_id = ?", sessionID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete stats: %w", err)
	}
	return nil
}

// DeleteOrphaned удаляет статистику сессий, которых больше нет
func (r *StatsRepository) DeleteOrphaned(ctx context.Context) (int, error) {
	sessions := r.db.NewSelect().
		Model((*model.GameSession)(nil)).
		Column("id")

	res, err := r.db.NewDelete().
		Model((*model.GuessStats)(nil)).
		Where("session_id NOT IN (?)", sessions).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete orphaned stats: %w", err)
	}

	n, _ := res.RowsAffected()
	return int(n), nil
}
