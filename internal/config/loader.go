// Package config содержит утилиты для загрузки конфигурации
package config

import (
	"context"
	"strconv"

	"go.uber.org/zap"
)

// ConfigLoader представляет загрузчик конфигурации
type ConfigLoader struct {
	configService ConfigServiceInterface
	logger        *zap.Logger
}

// ConfigServiceInterface определяет интерфейс для работы с конфигурацией
type ConfigServiceInterface interface {
	Get(ctx context.Context, key string) (string, error)
}

// NewConfigLoader создает новый загрузчик конфигурации
func NewConfigLoader(configService ConfigServiceInterface, logger *zap.Logger) *ConfigLoader {
	return &ConfigLoader{
		configService: configService,
		logger:        logger,
	}
}

// LoadConfigValue загружает значение конфигурации с приоритетом: env > база данных
func (cl *ConfigLoader) LoadConfigValue(ctx context.Context, envValue, configKey string) string {
	if envValue != "" {
		cl.logger.Debug("Using " + configKey + " from environment variables")
		return envValue
	}

	dbValue, err := cl.configService.Get(ctx, configKey)
	if err != nil || dbValue == "" {
		cl.logger.Debug("Failed to load "+configKey+" from database", zap.Error(err))
		return ""
	}

	cl.logger.Info("Loaded " + configKey + " from database")
	return dbValue
}

// LoadConfigValueWithSetter загружает значение конфигурации и устанавливает его через setter
func (cl *ConfigLoader) LoadConfigValueWithSetter(ctx context.Context, envValue, configKey string, setter func(string)) string {
	value := cl.LoadConfigValue(ctx, envValue, configKey)
	if value != "" {
		setter(value)
	}
	return value
}

// LoadConfigFromDB дополняет пустые значения конфигурации из базы данных
func (cl *ConfigLoader) LoadConfigFromDB(ctx context.Context, cfg *Config) {
	cl.LoadConfigValueWithSetter(ctx, cfg.SpotifyClientID, "SPOTIFY_CLIENT_ID", func(value string) {
		cfg.SpotifyClientID = value
	})

	cl.LoadConfigValueWithSetter(ctx, cfg.SpotifyClientSecret, "SPOTIFY_CLIENT_SECRET", func(value string) {
		cfg.SpotifyClientSecret = value
	})

	cl.LoadGameConfig(ctx, &cfg.GameConfig)
}

// LoadGameConfig дополняет пустые игровые параметры из базы данных
func (cl *ConfigLoader) LoadGameConfig(ctx context.Context, game *GameConfig) {
	cl.LoadConfigValueWithSetter(ctx, game.JudgePolicy, "GAME_JUDGE_POLICY", func(value string) {
		game.JudgePolicy = value
	})

	cl.LoadConfigValueWithSetter(ctx, game.AllowSubstring, "GAME_ALLOW_SUBSTRING", func(value string) {
		game.AllowSubstring = value
	})

	cl.LoadConfigValueWithSetter(ctx, game.Eligibility, "GAME_ELIGIBILITY", func(value string) {
		game.Eligibility = value
	})

	cl.LoadConfigValueWithSetter(ctx, game.TopWindow, "GAME_TOP_WINDOW", func(value string) {
		game.TopWindow = value
	})

	cl.loadInt(ctx, &game.LongThreshold, "GAME_LONG_THRESHOLD")
	cl.loadInt(ctx, &game.ShortThreshold, "GAME_SHORT_THRESHOLD")
}

func (cl *ConfigLoader) loadInt(ctx context.Context, target *int, configKey string) {
	var envValue string
	if *target != 0 {
		envValue = strconv.Itoa(*target)
	}

	cl.LoadConfigValueWithSetter(ctx, envValue, configKey, func(value string) {
		n, err := strconv.Atoi(value)
		if err != nil {
			cl.logger.Warn("Ignoring non-numeric config value",
				zap.String("key", configKey),
				zap.String("value", value))
			return
		}
		*target = n
	})
}
