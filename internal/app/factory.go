// Package app содержит фабрику компонентов приложения.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"spordle/internal/config"
	"spordle/internal/handlers"
	"spordle/internal/health"
	"spordle/internal/middleware"
	"spordle/internal/service"
	"spordle/internal/storage"
)

// ComponentFactory создает компоненты приложения
type ComponentFactory struct {
	config *config.Config
	logger *zap.Logger
}

// NewComponentFactory создает новую фабрику компонентов
func NewComponentFactory(config *config.Config, logger *zap.Logger) *ComponentFactory {
	if logger == nil {
		panic("Logger cannot be nil")
	}
	if config == nil {
		logger.Fatal("Config cannot be nil")
	}

	return &ComponentFactory{
		config: config,
		logger: logger,
	}
}

// CreateDatabase создает подключение к базе данных
func (f *ComponentFactory) CreateDatabase(ctx context.Context) (*storage.Postgres, error) {
	if f.config.DatabaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	db, err := storage.NewPostgres(ctx, f.config.DatabaseURL, storage.DefaultConnectOptions(), f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	f.logger.Info("Database connection created successfully")
	return db, nil
}

// CreateServices создает все сервисы
func (f *ComponentFactory) CreateServices(ctx context.Context, db *storage.Postgres) (*service.Services, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	services, err := service.NewServices(ctx, db, f.config, f.logger)
	if err != nil {
		return nil, err
	}

	f.logger.Info("Services created successfully")
	return services, nil
}

// CreateMiddleware создает middleware
func (f *ComponentFactory) CreateMiddleware() *middleware.Middleware {
	middlewareManager := middleware.New(f.config, f.logger)
	f.logger.Info("Middleware created successfully")
	return middlewareManager
}

// CreateRouter создает HTTP роутер со всеми маршрутами игры
func (f *ComponentFactory) CreateRouter(services *service.Services, mw *middleware.Middleware) *gin.Engine {
	if f.config.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(mw.Global()...)

	h := handlers.New(services.Auth, services.Game, f.config.SessionConfig, f.logger)
	h.Register(router, mw.Debounce())

	return router
}

// CreateHealthServer создает сервер health check
func (f *ComponentFactory) CreateHealthServer(db *storage.Postgres, services *service.Services) (*health.Server, error) {
	if !f.config.HealthCheckEnabled {
		f.logger.Info("Health check server is disabled")
		return nil, nil
	}

	if f.config.HealthPort == "" {
		return nil, fmt.Errorf("health port is required when health check is enabled")
	}

	server := health.NewServer(f.config.HealthPort, f.logger, db.GetDB())
	server.AddCheck("game_settings", func(ctx context.Context) error {
		return services.ConfigWatcher.Current().Policy.Validate()
	})

	f.logger.Info("Health check server created", zap.String("port", f.config.HealthPort))
	return server, nil
}

// CreateAppDataDirectory создает директорию данных приложения
func (f *ComponentFactory) CreateAppDataDirectory() error {
	dataDir := f.config.GetAppDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		f.logger.Error("Failed to create app data directory", zap.String("dir", dataDir), zap.Error(err))
		return fmt.Errorf("failed to create app data directory: %w", err)
	}
	f.logger.Info("App data directory ready", zap.String("dir", dataDir))
	return nil
}

// CreateServer создает полный экземпляр сервера со всеми зависимостями
func (f *ComponentFactory) CreateServer(ctx context.Context) (*Server, error) {
	if err := f.CreateAppDataDirectory(); err != nil {
		return nil, err
	}

	db, err := f.CreateDatabase(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	services, err := f.CreateServices(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create services: %w", err)
	}

	healthServer, err := f.CreateHealthServer(db, services)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create health server: %w", err)
	}

	mw := f.CreateMiddleware()
	router := f.CreateRouter(services, mw)

	f.logger.Info("All components created successfully")
	return NewServer(f.config, f.logger, db, services, mw, healthServer, router), nil
}
