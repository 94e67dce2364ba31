package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"spordle/internal/domain/round"
	"spordle/internal/model"
)

// AuthService управляет игровыми сессиями и авторизацией в Spotify
type AuthService struct {
	sessions model.SessionRepository
	tokens   model.TokenRepository
	stats    model.StatsRepository
	auth     Authorizer
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// NewAuthService создает новый сервис авторизации
func NewAuthService(sessions model.SessionRepository, tokens model.TokenRepository, stats model.StatsRepository, auth Authorizer, ttl time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		sessions: sessions,
		tokens:   tokens,
		stats:    stats,
		auth:     auth,
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

// EnsureSession возвращает действующую сессию по ID или создает новую
func (s *AuthService) EnsureSession(ctx context.Context, id string) (*model.GameSession, error) {
	now := s.now()

	if model.ValidateSessionID("session_id", id) == nil {
		session, err := s.sessions.Get(ctx, id)
		switch {
		case err == nil && !session.Expired(now):
			expiresAt := now.Add(s.ttl)
			if err := s.sessions.Touch(ctx, id, expiresAt); err != nil {
				return nil, fmt.Errorf("failed to extend session: %w", err)
			}
			session.ExpiresAt = expiresAt
			return session, nil
		case err == nil:
			s.logger.Debug("Session expired, starting a new one", zap.String("session_id", id))
		case !errors.Is(err, model.ErrSessionNotFound):
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
	}

	session := &model.GameSession{
		ID:        uuid.NewString(),
		UsedIDs:   []string{},
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("Game session started", zap.String("session_id", session.ID))
	return session, nil
}

// StartLogin запоминает случайный state и возвращает адрес авторизации Spotify
func (s *AuthService) StartLogin(ctx context.Context, sessionID string) (string, error) {
	state := uuid.NewString()
	if err := s.sessions.SetOAuthState(ctx, sessionID, state); err != nil {
		return "", fmt.Errorf("failed to store oauth state: %w", err)
	}
	return s.auth.AuthURL(state), nil
}

// CompleteLogin проверяет state, обменивает код на токен и сохраняет его для сессии.
// Состояние раундов начинается заново.
func (s *AuthService) CompleteLogin(ctx context.Context, sessionID, code, state string) error {
	if code == "" {
		return ErrMissingCode
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	if session.OAuthState == "" || session.OAuthState != state {
		s.logger.Warn("OAuth state mismatch", zap.String("session_id", sessionID))
		return ErrStateMismatch
	}

	token, err := s.auth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange code: %w", err)
	}

	if err := s.tokens.Save(ctx, model.NewOAuthToken(sessionID, token)); err != nil {
		return err
	}

	if err := s.sessions.SetOAuthState(ctx, sessionID, ""); err != nil {
		return fmt.Errorf("failed to clear oauth state: %w", err)
	}

	if _, err := s.sessions.WithLock(ctx, sessionID, func(round.State) (round.State, error) {
		return round.State{}, nil
	}); err != nil {
		return fmt.Errorf("failed to reset round state: %w", err)
	}

	s.logger.Info("Spotify login completed", zap.String("session_id", sessionID))
	return nil
}

// Logout удаляет сессию вместе с токеном, состоянием раундов и статистикой
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.tokens.Delete(ctx, sessionID); err != nil {
		return err
	}
	if err := s.stats.Delete(ctx, sessionID); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}

	s.logger.Info("Game session closed", zap.String("session_id", sessionID))
	return nil
}

// IsAuthenticated проверяет, есть ли у сессии токен Spotify
func (s *AuthService) IsAuthenticated(ctx context.Context, sessionID string) (bool, error) {
	token, err := s.tokens.Get(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return token != nil, nil
}
