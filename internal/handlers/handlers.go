// Package handlers содержит HTTP обработчики игры.
package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"spordle/internal/config"
	"spordle/internal/domain/matching"
	"spordle/internal/domain/round"
	"spordle/internal/model"
)

// SessionService определяет операции с сессиями и авторизацией
type SessionService interface {
	EnsureSession(ctx context.Context, id string) (*model.GameSession, error)
	StartLogin(ctx context.Context, sessionID string) (string, error)
	CompleteLogin(ctx context.Context, sessionID, code, state string) error
	Logout(ctx context.Context, sessionID string) error
	IsAuthenticated(ctx context.Context, sessionID string) (bool, error)
}

// GameService определяет игровые операции
type GameService interface {
	NextTrack(ctx context.Context, sessionID string) (round.Track, error)
	CheckGuess(ctx context.Context, sessionID, guess, fallbackTitle string) (matching.Verdict, error)
	PlaySnippet(ctx context.Context, sessionID, uri string, duration time.Duration) (time.Duration, error)
	Stats(ctx context.Context, sessionID string) (*model.GuessStats, error)
	ResetRound(ctx context.Context, sessionID string) error
}

// Handlers содержит все HTTP обработчики
type Handlers struct {
	sessions SessionService
	game     GameService
	cookie   config.SessionConfig
	logger   *zap.Logger
}

// New создает новый экземпляр обработчиков
func New(sessions SessionService, game GameService, cookie config.SessionConfig, logger *zap.Logger) *Handlers {
	return &Handlers{
		sessions: sessions,
		game:     game,
		cookie:   cookie,
		logger:   logger,
	}
}

// Register регистрирует маршруты. debounce применяется к запуску фрагмента.
func (h *Handlers) Register(router gin.IRouter, debounce gin.HandlerFunc) {
	router.Use(h.Session())

	router.GET("/", h.Index)
	router.GET("/game", h.Game)

	router.GET("/login", h.Login)
	router.GET("/callback", h.Callback)
	router.GET("/logout", h.Logout)

	api := router.Group("/api")
	api.GET("/session-info", h.SessionInfo)
	api.GET("/seed-track", h.SeedTrack)
	api.POST("/check-guess", h.CheckGuess)
	api.POST("/play-snippet", debounce, h.PlaySnippet)
	api.GET("/stats", h.Stats)
	api.POST("/reset", h.Reset)
}
