package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"spordle/internal/model"
)

// SweepResult - сколько записей удалено за один проход уборщика
type SweepResult struct {
	Sessions int
	Tokens   int
	Stats    int
}

// Janitor по расписанию удаляет истекшие сессии и осиротевшие токены и статистику
type Janitor struct {
	sessions model.SessionRepository
	tokens   model.TokenRepository
	stats    model.StatsRepository
	interval time.Duration
	cron     *cron.Cron
	now      func() time.Time
	logger   *zap.Logger

	mu      sync.Mutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewJanitor создает новый уборщик сессий
func NewJanitor(sessions model.SessionRepository, tokens model.TokenRepository, stats model.StatsRepository, interval time.Duration, logger *zap.Logger) *Janitor {
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	return &Janitor{
		sessions: sessions,
		tokens:   tokens,
		stats:    stats,
		interval: interval,
		cron:     cron.New(cron.WithLocation(time.UTC)),
		now:      time.Now,
		logger:   logger,
	}
}

// Start запускает уборку по расписанию; ctx отменяет текущий проход
func (j *Janitor) Start(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.running {
		return fmt.Errorf("janitor is already running")
	}

	j.ctx, j.cancel = context.WithCancel(ctx)

	_, err := j.cron.AddFunc(fmt.Sprintf("@every %s", j.interval), func() {
		if _, err := j.Sweep(j.ctx); err != nil {
			j.logger.Error("Session sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		j.cancel()
		return fmt.Errorf("failed to schedule session sweep: %w", err)
	}

	j.cron.Start()
	j.running = true

	j.logger.Info("Session janitor started", zap.Duration("interval", j.interval))
	return nil
}

// Stop останавливает уборщика и ждет завершения текущего прохода
func (j *Janitor) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.running {
		return
	}

	j.cancel()
	<-j.cron.Stop().Done()
	j.running = false

	j.logger.Info("Session janitor stopped")
}

// Sweep выполняет один проход уборки
func (j *Janitor) Sweep(ctx context.Context) (SweepResult, error) {
	var result SweepResult
	var err error

	result.Sessions, err = j.sessions.DeleteExpired(ctx, j.now())
	if err != nil {
		return result, err
	}

	result.Tokens, err = j.tokens.DeleteOrphaned(ctx)
	if err != nil {
		return result, err
	}

	result.Stats, err = j.stats.DeleteOrphaned(ctx)
	if err != nil {
		return result, err
	}

	if result.Sessions > 0 || result.Tokens > 0 || result.Stats > 0 {
		j.logger.Info("Expired sessions removed",
			zap.Int("sessions", result.Sessions),
			zap.Int("tokens", result.Tokens),
			zap.Int("stats", result.Stats))
	}
	return result, nil
}
