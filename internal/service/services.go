// Package service содержит бизнес-логику приложения.
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"spordle/internal/config"
	gateway "spordle/internal/gateway/spotify"
	"spordle/internal/storage"
)

// Services содержит все сервисы приложения
type Services struct {
	Auth          *AuthService
	Game          *GameService
	Config        *ConfigService
	ConfigWatcher *ConfigWatcher
	Janitor       *Janitor
}

// NewServices создает все сервисы
func NewServices(ctx context.Context, db *storage.Postgres, cfg *config.Config, logger *zap.Logger) (*Services, error) {
	configService := NewConfigService(db.GetConfigRepository(), logger)

	// Игровые настройки из окружения сохраняем до слияния с базой: наблюдатель перечитывает базу сам
	envGame := cfg.GameConfig

	// Загружаем недостающие значения из базы данных (приоритет: env > база данных)
	config.NewConfigLoader(configService, logger).LoadConfigFromDB(ctx, cfg)

	if err := cfg.ValidateSpotify(); err != nil {
		return nil, fmt.Errorf("spotify credentials: %w", err)
	}

	authenticator, err := gateway.NewAuthenticator(gateway.AuthConfig{
		ClientID:       cfg.SpotifyClientID,
		ClientSecret:   cfg.SpotifyClientSecret,
		RedirectURL:    cfg.SpotifyRedirectURI,
		RequestTimeout: cfg.SpotifyConfig.RequestTimeout,
		Retry: gateway.RetryConfig{
			MaxRetries:        cfg.SpotifyConfig.RetryConfig.MaxRetries,
			InitialDelay:      cfg.SpotifyConfig.RetryConfig.InitialDelay,
			MaxDelay:          cfg.SpotifyConfig.RetryConfig.MaxDelay,
			BackoffMultiplier: cfg.SpotifyConfig.RetryConfig.BackoffMultiplier,
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create spotify authenticator: %w", err)
	}
	authorizer := NewSpotifyAdapter(authenticator)

	sessions := db.GetSessionRepository()
	tokens := db.GetTokenRepository()
	stats := db.GetStatsRepository()

	configWatcher := NewConfigWatcher(configService, envGame, 0, logger)
	if err := configWatcher.Refresh(ctx); err != nil {
		logger.Warn("Starting with fallback game settings", zap.Error(err))
	}

	game := NewGameService(sessions, tokens, stats, authorizer, configWatcher, SnippetBounds{
		Min:     cfg.GameConfig.MinSnippet,
		Max:     cfg.GameConfig.MaxSnippet,
		Default: cfg.GameConfig.DefaultSnippet,
	}, logger)

	return &Services{
		Auth:          NewAuthService(sessions, tokens, stats, authorizer, cfg.SessionConfig.TTL, logger),
		Game:          game,
		Config:        configService,
		ConfigWatcher: configWatcher,
		Janitor:       NewJanitor(sessions, tokens, stats, cfg.SessionConfig.CleanupInterval, logger),
	}, nil
}
