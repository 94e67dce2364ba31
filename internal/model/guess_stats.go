// Package model содержит модели данных.
//
// Группа: ENTITIES - Основные сущности
// Содержит: GuessStats, StatsRepository
package model

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// GuessStats представляет счетчики попыток в игровой сессии
type GuessStats struct {
	bun.BaseModel `bun:"table:guess_stats,alias:gs"`

	SessionID string    `bun:"session_id,pk,type:uuid" json:"-"`
	Rounds    int       `bun:"rounds,notnull,default:0" json:"rounds"`
	Attempts  int       `bun:"attempts,notnull,default:0" json:"attempts"`
	Correct   int       `bun:"correct,notnull,default:0" json:"correct"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// Accuracy возвращает долю угаданных попыток
func (s *GuessStats) Accuracy() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Attempts)
}

// StatsRepository определяет интерфейс для работы со статистикой попыток
type StatsRepository interface {
	Get(ctx context.Context, sessionID string) (*GuessStats, error)
	RecordRound(ctx context.Context, sessionID string) error
	RecordAttempt(ctx context.Context, sessionID string, accepted bool) error
	Delete(ctx context.Context, sessionID string) error
	DeleteOrphaned(ctx context.Context) (int, error)
}
