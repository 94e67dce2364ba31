// Package app содержит основную логику приложения.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"spordle/internal/config"
	"spordle/internal/health"
	"spordle/internal/middleware"
	"spordle/internal/service"
	"spordle/internal/storage"
)

const (
	shutdownTimeout         = 30 * time.Second
	middlewareCleanupPeriod = 5 * time.Minute
)

// Server представляет игровой HTTP сервер со всеми фоновыми процессами
type Server struct {
	config     *config.Config
	logger     *zap.Logger
	db         *storage.Postgres
	services   *service.Services
	middleware *middleware.Middleware
	health     *health.Server
	http       *http.Server
	wg         sync.WaitGroup
}

// NewServer создает новый экземпляр сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	db *storage.Postgres,
	services *service.Services,
	mw *middleware.Middleware,
	healthServer *health.Server,
	handler http.Handler,
) *Server {
	return &Server{
		config:     cfg,
		logger:     logger,
		db:         db,
		services:   services,
		middleware: mw,
		health:     healthServer,
		http: &http.Server{
			Addr:              ":" + cfg.HTTPPort,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// NewServerWithFactory создает сервер через фабрику компонентов
func NewServerWithFactory(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	return NewComponentFactory(cfg, logger).CreateServer(ctx)
}

// Run запускает сервер и блокируется до отмены ctx, после чего выполняет graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("Starting server", zap.String("addr", s.http.Addr))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.health != nil {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.health.Start(); err != nil {
				s.logger.Error("Health check server failed", zap.Error(err))
			}
		}()
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.middleware.RunCleanup(runCtx, middlewareCleanupPeriod)
		s.logger.Info("Middleware cleanup stopped by context")
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.services.ConfigWatcher.Start(runCtx)
	}()

	if err := s.services.Janitor.Start(runCtx); err != nil {
		s.logger.Error("Failed to start session janitor", zap.Error(err))
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		s.logger.Info("Shutdown requested")
	case err, ok := <-serveErr:
		if ok {
			runErr = fmt.Errorf("http server failed: %w", err)
			s.logger.Error("HTTP server failed", zap.Error(err))
		}
	}

	cancel()
	s.shutdown()
	return runErr
}

// shutdown останавливает все компоненты в обратном порядке
func (s *Server) shutdown() {
	s.logger.Info("Stopping server gracefully")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Failed to stop HTTP server", zap.Error(err))
	}

	s.services.Janitor.Stop()
	s.services.ConfigWatcher.Stop()

	if s.health != nil {
		if err := s.health.Stop(shutdownCtx); err != nil {
			s.logger.Error("Failed to stop health check server", zap.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.wg.Wait()
	}()

	select {
	case <-done:
		s.logger.Info("All goroutines stopped successfully")
	case <-shutdownCtx.Done():
		s.logger.Warn("Graceful shutdown timeout exceeded, forcing stop")
	}

	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close database connection", zap.Error(err))
	}

	s.logger.Info("Server stopped successfully")
}
