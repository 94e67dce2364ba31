package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"spordle/internal/config"
)

// ConfigWatcher периодически перечитывает игровые настройки из базы данных.
// Переменные окружения имеют приоритет над значениями из базы.
type ConfigWatcher struct {
	loader   *config.ConfigLoader
	env      config.GameConfig
	interval time.Duration
	current  atomic.Pointer[GameSettings]
	logger   *zap.Logger
	stopChan chan struct{}
	stopOnce sync.Once
}

var _ SettingsProvider = (*ConfigWatcher)(nil)

// NewConfigWatcher создает новый наблюдатель конфигурации
func NewConfigWatcher(configService config.ConfigServiceInterface, env config.GameConfig, interval time.Duration, logger *zap.Logger) *ConfigWatcher {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	w := &ConfigWatcher{
		loader:   config.NewConfigLoader(configService, logger),
		env:      env,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}

	settings, err := BuildGameSettings(env)
	if err != nil {
		logger.Warn("Invalid game settings in environment, using defaults", zap.Error(err))
		settings = DefaultGameSettings()
	}
	w.current.Store(&settings)

	return w
}

// Current возвращает последние загруженные настройки
func (w *ConfigWatcher) Current() GameSettings {
	return *w.current.Load()
}

// Refresh перечитывает настройки; при ошибке остаются прежние
func (w *ConfigWatcher) Refresh(ctx context.Context) error {
	game := w.env
	w.loader.LoadGameConfig(ctx, &game)

	settings, err := BuildGameSettings(game)
	if err != nil {
		w.logger.Warn("Ignoring invalid game settings", zap.Error(err))
		return err
	}

	previous := w.current.Swap(&settings)
	if previous == nil || !previous.sameAs(settings) {
		w.logger.Info("Game settings applied",
			zap.String("policy", settings.Policy.Name),
			zap.Int("long_threshold", settings.Policy.LongThreshold),
			zap.Int("short_threshold", settings.Policy.ShortThreshold),
			zap.Bool("allow_substring", settings.Policy.AllowSubstring),
			zap.String("eligibility", settings.EligibilityName),
			zap.String("top_window", string(settings.TopWindow)))
	}
	return nil
}

// Start запускает наблюдение за изменениями конфигурации
func (w *ConfigWatcher) Start(ctx context.Context) {
	w.logger.Info("Starting config watcher", zap.Duration("interval", w.interval))
	_ = w.Refresh(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Config watcher stopped due to context cancellation")
			return
		case <-w.stopChan:
			w.logger.Info("Config watcher stopped")
			return
		case <-ticker.C:
			_ = w.Refresh(ctx)
		}
	}
}

// Stop останавливает наблюдение за изменениями конфигурации
func (w *ConfigWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopChan) })
}
