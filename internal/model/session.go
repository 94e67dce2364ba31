// Package model содержит модели данных.
//
// Группа: ENTITIES - Основные сущности
// Содержит: GameSession, SessionRepository
package model

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/uptrace/bun"

	"spordle/internal/domain/round"
)

// ErrSessionNotFound возвращается, если игровой сессии нет в хранилище
var ErrSessionNotFound = errors.New("session not found")

// GameSession представляет игровую сессию пользователя и состояние ее раундов
type GameSession struct {
	bun.BaseModel `bun:"table:game_sessions,alias:gsn"`

	ID            string        `bun:"id,pk,type:uuid" json:"id"`
	UsedIDs       []string      `bun:"used_ids,array,notnull,default:'{}'" json:"used_ids"`
	CurrentAnswer *round.Answer `bun:"current_answer,type:jsonb" json:"current_answer,omitempty"`
	OAuthState    string        `bun:"oauth_state" json:"-"`
	CreatedAt     time.Time     `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time     `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
	ExpiresAt     time.Time     `bun:"expires_at,notnull" json:"expires_at"`
}

// RoundState возвращает состояние раундов сессии
func (s *GameSession) RoundState() round.State {
	return round.State{
		UsedIDs:       slices.Clone(s.UsedIDs),
		CurrentAnswer: s.CurrentAnswer,
	}
}

// ApplyRoundState записывает новое состояние раундов в сессию
func (s *GameSession) ApplyRoundState(state round.State) {
	s.UsedIDs = slices.Clone(state.UsedIDs)
	if s.UsedIDs == nil {
		s.UsedIDs = []string{}
	}
	s.CurrentAnswer = state.CurrentAnswer
}

// Expired проверяет, истекла ли сессия
func (s *GameSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// RoundMutator получает текущее состояние раундов и возвращает новое
type RoundMutator func(state round.State) (round.State, error)

// SessionRepository определяет интерфейс для работы с игровыми сессиями
type SessionRepository interface {
	Get(ctx context.Context, id string) (*GameSession, error)
	Create(ctx context.Context, session *GameSession) error
	SetOAuthState(ctx context.Context, id, state string) error
	Touch(ctx context.Context, id string, expiresAt time.Time) error
	// WithLock атомарно читает, изменяет и сохраняет состояние раундов сессии
	WithLock(ctx context.Context, id string, fn RoundMutator) (round.State, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
