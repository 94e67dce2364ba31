// Package model содержит модели данных.
//
// Группа: ENTITIES - Основные сущности
// Содержит: Config, ConfigRepository
package model

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Ключи конфигурации игры, хранимые в базе данных
const (
	ConfigJudgePolicy    = "GAME_JUDGE_POLICY"
	ConfigLongThreshold  = "GAME_LONG_THRESHOLD"
	ConfigShortThreshold = "GAME_SHORT_THRESHOLD"
	ConfigAllowSubstring = "GAME_ALLOW_SUBSTRING"
	ConfigEligibility    = "GAME_ELIGIBILITY"
	ConfigTopWindow      = "GAME_TOP_WINDOW"
)

// Config представляет параметр конфигурации приложения
type Config struct {
	bun.BaseModel `bun:"table:config"`

	ID          int       `bun:"id,pk,autoincrement" json:"id"`
	Key         string    `bun:"key,unique,notnull" json:"key"`
	Value       string    `bun:"value,notnull" json:"value"`
	Description string    `bun:"description" json:"description"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// ConfigRepository определяет интерфейс для работы с конфигурацией
type ConfigRepository interface {
	Get(ctx context.Context, key string) (*Config, error)
	GetAll(ctx context.Context) ([]Config, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Reset(ctx context.Context) error
	GetDefaultConfig() map[string]string
}
