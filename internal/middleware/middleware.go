// Package middleware содержит middleware компоненты HTTP сервера.
package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"spordle/internal/config"
)

// SessionIDKey - ключ контекста gin, под которым хранится ID игровой сессии
const SessionIDKey = "session_id"

// SessionID возвращает ID игровой сессии запроса или пустую строку
func SessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}

// Middleware представляет набор middleware с общим состоянием
type Middleware struct {
	rateLimiter RateLimiterInterface
	debouncer   DebouncerInterface
	logger      *zap.Logger
}

// New создает новый middleware
func New(cfg *config.Config, logger *zap.Logger) *Middleware {
	return &Middleware{
		rateLimiter: NewRateLimiter(cfg.RateLimitConfig.RequestsPerSecond, cfg.RateLimitConfig.Burst, logger),
		// Повторный запуск фрагмента не раньше, чем закончится минимальный фрагмент
		debouncer: NewDebouncer(cfg.GameConfig.MinSnippet, logger),
		logger:    logger,
	}
}

// Global возвращает middleware, которые применяются ко всем маршрутам
func (m *Middleware) Global() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		Recovery(m.logger),
		RequestLogger(m.logger),
		RateLimit(m.rateLimiter, m.logger),
	}
}

// Debounce возвращает middleware защиты от двойных кликов
func (m *Middleware) Debounce() gin.HandlerFunc {
	return DebounceMiddleware(m.debouncer, m.logger)
}

// Cleanup очищает устаревшие записи в middleware
func (m *Middleware) Cleanup() {
	m.rateLimiter.Cleanup()
	m.debouncer.Cleanup()
}

// RunCleanup периодически вызывает Cleanup до отмены ctx
func (m *Middleware) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Cleanup()
		}
	}
}
