package storage

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"spordle/internal/model"
)

// Migrate создает таблицы, если их нет, и заполняет конфигурацию по умолчанию
func (p *Postgres) Migrate(ctx context.Context) error {
	models := []any{
		(*model.GameSession)(nil),
		(*model.OAuthToken)(nil),
		(*model.GuessStats)(nil),
		(*model.Config)(nil),
	}

	err := p.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, m := range models {
			if _, err := tx.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create table for %T: %w", m, err)
			}
		}

		_, err := tx.NewCreateIndex().
			Model((*model.GameSession)(nil)).
			Index("game_sessions_expires_at_idx").
			Column("expires_at").
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create expires_at index: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	seeded, err := p.seedConfig(ctx)
	if err != nil {
		return err
	}

	p.logger.Info("Database migrated",
		zap.Int("tables", len(models)),
		zap.Int("config_seeded", seeded))
	return nil
}

// seedConfig добавляет отсутствующие ключи конфигурации со значениями по умолчанию
func (p *Postgres) seedConfig(ctx context.Context) (int, error) {
	repo := p.GetConfigRepository()

	seeded := 0
	for key, value := range repo.GetDefaultConfig() {
		res, err := p.db.NewInsert().
			Model(&model.Config{Key: key, Value: value}).
			On("CONFLICT (key) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return seeded, fmt.Errorf("failed to seed config %s: %w", key, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			seeded += int(n)
		}
	}
	return seeded, nil
}
