package spotify

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
)

// RetryConfig представляет конфигурацию повторов запросов к Spotify
type RetryConfig struct {
	MaxRetries        int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
}

// DefaultRetryConfig возвращает конфигурацию повторов по умолчанию
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:        2,
		InitialDelay:      500 * time.Millisecond,
		MaxDelay:          5 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// withRetry выполняет fn, повторяя только временные ошибки (429, 5xx)
func withRetry(ctx context.Context, logger *zap.Logger, config RetryConfig, op string, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := fn()
		if err == nil {
			if attempt > 0 {
				logger.Debug("Spotify request succeeded after retry",
					zap.String("op", op),
					zap.Int("attempt", attempt+1))
			}
			return nil
		}

		lastErr = err

		if !isTransient(err) || attempt == config.MaxRetries {
			break
		}

		// Экспоненциальный backoff
		delay := time.Duration(float64(config.InitialDelay) * math.Pow(config.BackoffMultiplier, float64(attempt)))
		if delay > config.MaxDelay {
			delay = config.MaxDelay
		}

		logger.Debug("Spotify request failed, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", config.MaxRetries),
			zap.Duration("delay", delay),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	if isTransient(lastErr) {
		return fmt.Errorf("spotify request failed after %d attempts: %w", config.MaxRetries+1, lastErr)
	}
	return lastErr
}
