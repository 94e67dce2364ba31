// Package repository содержит репозитории для работы с базой данных.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"spordle/internal/model"
)

// ConfigRepository реализует интерфейс для работы с конфигурацией
type ConfigRepository struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewConfigRepository создает новый репозиторий конфигурации
func NewConfigRepository(db *bun.DB, logger *zap.Logger) *ConfigRepository {
	return &ConfigRepository{
		db:     db,
		logger: logger,
	}
}

// Get возвращает конфигурацию по ключу или nil, если ключа нет
func (r *ConfigRepository) Get(ctx context.Context, key string) (*model.Config, error) {
	config := new(model.Config)

	err := r.db.NewSelect().
		Model(config).
		Where("key = ?", key).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan config: %w", err)
	}

	return config, nil
}

// GetAll возвращает всю конфигурацию
func (r *ConfigRepository) GetAll(ctx context.Context) ([]model.Config, error) {
	var configs []model.Config

	err := r.db.NewSelect().
		Model(&configs).
		Order("key ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query config: %w", err)
	}

	return configs, nil
}

// Set устанавливает значение конфигурации
func (r *ConfigRepository) Set(ctx context.Context, key, value string) error {
	config := &model.Config{
		Key:   key,
		Value: value,
	}

	_, err := r.db.NewInsert().
		Model(config).
		On("CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set config: %w", err)
	}

	r.logger.Info("Config value updated", zap.String("key", key))
	return nil
}

// Delete удаляет конфигурацию
func (r *ConfigRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.NewDelete().
		Model((*model.Config)(nil)).
		Where("key = ?", key).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete config: %w", err)
	}

	return nil
}

// Reset сбрасывает конфигурацию к значениям по умолчанию
func (r *ConfigRepository) Reset(ctx context.Context) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*model.Config)(nil)).
			Where("TRUE").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete config: %w", err)
		}

		for key, value := range r.GetDefaultConfig() {
			_, err := tx.NewInsert().
				Model(&model.Config{Key: key, Value: value}).
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to set default config %s: %w", key, err)
			}
		}
		return nil
	})
}

// GetDefaultConfig возвращает конфигурацию по умолчанию
func (r *ConfigRepository) GetDefaultConfig() map[string]string {
	return map[string]string{
		model.ConfigJudgePolicy:    "ratio",
		model.ConfigLongThreshold:  "93",
		model.ConfigShortThreshold: "88",
		model.ConfigAllowSubstring: "false",
		model.ConfigEligibility:    "latin",
		model.ConfigTopWindow:      "medium_term",
	}
}

// GetAllAsString возвращает всю конфигурацию в виде строки
func (r *ConfigRepository) GetAllAsString(ctx context.Context) (string, error) {
	configs, err := r.GetAll(ctx)
	if err != nil {
		return "", err
	}

	var result strings.Builder
	for _, config := range configs {
		fmt.Fprintf(&result, "%s=%s\n", config.Key, config.Value)
	}

	return result.String(), nil
}
