package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"spordle/internal/domain/matching"
	"spordle/internal/domain/round"
	"spordle/internal/model"
)

// SnippetBounds задает допустимую длительность фрагмента
type SnippetBounds struct {
	Min     time.Duration
	Max     time.Duration
	Default time.Duration
}

// Clamp возвращает длительность по умолчанию для нуля и приводит остальное к границам
func (b SnippetBounds) Clamp(d time.Duration) time.Duration {
	if d <= 0 {
		return b.Default
	}
	return min(max(d, b.Min), b.Max)
}

// GameService содержит бизнес-логику игры: выдачу раундов, проверку ответов и воспроизведение
type GameService struct {
	sessions model.SessionRepository
	tokens   model.TokenRepository
	stats    model.StatsRepository
	auth     Authorizer
	settings SettingsProvider
	snippet  SnippetBounds
	logger   *zap.Logger

	shuffle func(n int, swap func(i, j int))
	intn    func(n int) int
}

// NewGameService создает новый игровой сервис
func NewGameService(
	sessions model.SessionRepository,
	tokens model.TokenRepository,
	stats model.StatsRepository,
	auth Authorizer,
	settings SettingsProvider,
	snippet SnippetBounds,
	logger *zap.Logger,
) *GameService {
	return &GameService{
		sessions: sessions,
		tokens:   tokens,
		stats:    stats,
		auth:     auth,
		settings: settings,
		snippet:  snippet,
		logger:   logger,
	}
}

// WithRandom подменяет источники случайности сборщика пула и селектора
func (s *GameService) WithRandom(shuffle func(n int, swap func(i, j int)), intn func(n int) int) *GameService {
	s.shuffle = shuffle
	s.intn = intn
	return s
}

// NextTrack собирает пул кандидатов, выбирает трек и сохраняет его как текущий ответ сессии
func (s *GameService) NextTrack(ctx context.Context, sessionID string) (_ round.Track, err error) {
	client, token, err := s.userClient(ctx, sessionID)
	if err != nil {
		return round.Track{}, err
	}
	defer func() { s.persistToken(ctx, sessionID, client, token, err) }()

	settings := s.settings.Current()

	builder := round.NewPoolBuilder(round.PoolOptions{
		TopWindow: settings.TopWindow,
		Shuffle:   s.shuffle,
	}, s.logger)

	pool, err := builder.Build(ctx, client)
	if err != nil {
		return round.Track{}, s.handleReauth(ctx, sessionID, err)
	}

	selector := round.NewSelector(settings.Eligibility)
	if s.intn != nil {
		selector.WithRand(s.intn)
	}

	var picked round.Track
	_, err = s.sessions.WithLock(ctx, sessionID, func(state round.State) (round.State, error) {
		track, next, err := selector.Pick(pool, state)
		if err != nil {
			return state, err
		}
		picked = track
		return next, nil
	})
	if err != nil {
		if errors.Is(err, round.ErrNoMoreTracks) {
			s.logger.Info("No more tracks for session",
				zap.String("session_id", sessionID),
				zap.Int("pool_size", len(pool)))
		}
		return round.Track{}, err
	}

	if err := s.stats.RecordRound(ctx, sessionID); err != nil {
		s.logger.Warn("Failed to record round", zap.String("session_id", sessionID), zap.Error(err))
	}

	s.logger.Info("Round started",
		zap.String("session_id", sessionID),
		zap.String("track_id", picked.ID),
		zap.Int("pool_size", len(pool)))
	return picked, nil
}

// CheckGuess проверяет ответ против сохраненного в сессии трека.
// Если трек не загадан, используется fallbackTitle из запроса.
func (s *GameService) CheckGuess(ctx context.Context, sessionID, guess, fallbackTitle string) (matching.Verdict, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return matching.Verdict{}, fmt.Errorf("failed to load session: %w", err)
	}

	rawAnswer, normalizedAnswer := fallbackTitle, ""
	if session.CurrentAnswer != nil {
		rawAnswer = session.CurrentAnswer.Title
		normalizedAnswer = session.CurrentAnswer.NormalizedTitle
	}

	judge := matching.NewJudge(s.settings.Current().Policy)
	verdict, err := judge.Judge(guess, rawAnswer, normalizedAnswer)
	if err != nil {
		return matching.Verdict{}, err
	}

	if err := s.stats.RecordAttempt(ctx, sessionID, verdict.Accepted); err != nil {
		s.logger.Warn("Failed to record guess attempt", zap.String("session_id", sessionID), zap.Error(err))
	}

	s.logger.Debug("Guess judged",
		zap.String("session_id", sessionID),
		zap.Bool("accepted", verdict.Accepted),
		zap.Int("score", verdict.Score),
		zap.String("policy", judge.Policy().Name))
	return verdict, nil
}

// PlaySnippet проигрывает начало трека на активном устройстве пользователя
func (s *GameService) PlaySnippet(ctx context.Context, sessionID, uri string, duration time.Duration) (_ time.Duration, err error) {
	client, token, err := s.userClient(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	defer func() { s.persistToken(ctx, sessionID, client, token, err) }()

	deviceID, err := client.ActiveDevice(ctx)
	if err != nil {
		return 0, s.handleReauth(ctx, sessionID, err)
	}

	duration = s.snippet.Clamp(duration)
	if err := client.PlaySnippet(ctx, deviceID, uri, duration); err != nil {
		return 0, s.handleReauth(ctx, sessionID, err)
	}

	return duration, nil
}

// Stats возвращает статистику попыток сессии
func (s *GameService) Stats(ctx context.Context, sessionID string) (*model.GuessStats, error) {
	return s.stats.Get(ctx, sessionID)
}

// ResetRound начинает новое прохождение: показанные треки и текущий ответ забываются
func (s *GameService) ResetRound(ctx context.Context, sessionID string) error {
	_, err := s.sessions.WithLock(ctx, sessionID, func(round.State) (round.State, error) {
		return round.State{UsedIDs: []string{}}, nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Round state reset", zap.String("session_id", sessionID))
	return nil
}

// Settings возвращает текущие игровые настройки
func (s *GameService) Settings() GameSettings {
	return s.settings.Current()
}

// userClient создает клиента Spotify из токена сессии
func (s *GameService) userClient(ctx context.Context, sessionID string) (UserClient, *oauth2.Token, error) {
	stored, err := s.tokens.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if stored == nil {
		return nil, nil, ErrNotAuthenticated
	}

	token := stored.Token()
	return s.auth.NewUserClient(ctx, token), token, nil
}

// persistToken сохраняет токен, если клиент успел его обновить.
// После отказа в авторизации токен уже удален и не сохраняется.
func (s *GameService) persistToken(ctx context.Context, sessionID string, client UserClient, previous *oauth2.Token, callErr error) {
	if errors.Is(callErr, round.ErrReauthRequired) {
		return
	}

	current, err := client.Token()
	if err != nil || current == nil || current.AccessToken == previous.AccessToken {
		return
	}

	if err := s.tokens.Save(context.WithoutCancel(ctx), model.NewOAuthToken(sessionID, current)); err != nil {
		s.logger.Warn("Failed to persist refreshed token", zap.String("session_id", sessionID), zap.Error(err))
		return
	}
	s.logger.Debug("Refreshed token persisted", zap.String("session_id", sessionID))
}

// handleReauth удаляет недействительный токен, чтобы сессия снова требовала логин
func (s *GameService) handleReauth(ctx context.Context, sessionID string, err error) error {
	if !errors.Is(err, round.ErrReauthRequired) {
		return err
	}

	if delErr := s.tokens.Delete(context.WithoutCancel(ctx), sessionID); delErr != nil {
		s.logger.Warn("Failed to drop revoked token", zap.String("session_id", sessionID), zap.Error(delErr))
	}
	s.logger.Info("Spotify authorization expired", zap.String("session_id", sessionID))
	return err
}
