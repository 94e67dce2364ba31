package round

import (
	"context"
	"errors"
	"math/rand"

	"go.uber.org/zap"
)

// Source - источник кандидатов
type Source string

// Источники в порядке приоритета при дедупликации
const (
	SourceCurrentlyPlaying Source = "currently_playing"
	SourceRecentlyPlayed   Source = "recently_played"
	SourceTopTracks        Source = "top_tracks"
)

// Лимиты каталога по умолчанию
const (
	DefaultRecentLimit = 50
	DefaultTopLimit    = 50
)

// SourceResult - итог запроса к одному источнику: треки либо недоступность
type SourceResult struct {
	Source Source
	Tracks []Track
	Err    error
}

// Available сообщает, ответил ли источник
func (r SourceResult) Available() bool {
	return r.Err == nil
}

// PoolOptions настраивает сборщик пула
type PoolOptions struct {
	RecentLimit int
	TopLimit    int
	TopWindow   TimeWindow
	// Shuffle перемешивает пул; по умолчанию rand.Shuffle
	Shuffle func(n int, swap func(i, j int))
}

// PoolBuilder собирает пул кандидатов из трех источников каталога
type PoolBuilder struct {
	opts   PoolOptions
	logger *zap.Logger
}

// NewPoolBuilder создает сборщик пула
func NewPoolBuilder(opts PoolOptions, logger *zap.Logger) *PoolBuilder {
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = DefaultRecentLimit
	}
	if opts.TopLimit <= 0 {
		opts.TopLimit = DefaultTopLimit
	}
	if opts.TopWindow == "" {
		opts.TopWindow = MediumTerm
	}
	if opts.Shuffle == nil {
		opts.Shuffle = rand.Shuffle
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &PoolBuilder{
		opts:   opts,
		logger: logger,
	}
}

// Build опрашивает все три источника и возвращает перемешанный пул без дублей.
// Недоступный источник просто ничего не добавляет; наружу выходит только
// ErrReauthRequired, чтобы вызывающий мог отправить пользователя на логин.
func (b *PoolBuilder) Build(ctx context.Context, catalogue Catalogue) ([]Track, error) {
	results := b.Collect(ctx, catalogue)

	for _, result := range results {
		if errors.Is(result.Err, ErrReauthRequired) {
			return nil, ErrReauthRequired
		}
	}

	pool := Merge(results)
	b.opts.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	b.logger.Debug("Candidate pool built", zap.Int("pool_size", len(pool)))
	return pool, nil
}

// Collect опрашивает источники по порядку; ни один сбой не прерывает остальные
func (b *PoolBuilder) Collect(ctx context.Context, catalogue Catalogue) []SourceResult {
	results := make([]SourceResult, 0, 3)

	current, err := catalogue.CurrentlyPlaying(ctx)
	result := SourceResult{Source: SourceCurrentlyPlaying, Err: err}
	if err == nil && current != nil {
		result.Tracks = []Track{*current}
	}
	results = append(results, b.logResult(result))

	recent, err := catalogue.RecentlyPlayed(ctx, b.opts.RecentLimit)
	results = append(results, b.logResult(SourceResult{Source: SourceRecentlyPlayed, Tracks: recent, Err: err}))

	top, err := catalogue.TopTracks(ctx, b.opts.TopLimit, b.opts.TopWindow)
	results = append(results, b.logResult(SourceResult{Source: SourceTopTracks, Tracks: top, Err: err}))

	return results
}

func (b *PoolBuilder) logResult(result SourceResult) SourceResult {
	if !result.Available() {
		b.logger.Warn("Candidate source unavailable",
			zap.String("source", string(result.Source)),
			zap.Error(result.Err))
		result.Tracks = nil
		return result
	}

	b.logger.Debug("Candidate source answered",
		zap.String("source", string(result.Source)),
		zap.Int("tracks", len(result.Tracks)))
	return result
}

// Merge объединяет результаты источников по порядку: первое вхождение id побеждает.
// Треки без id и результаты недоступных источников пропускаются.
func Merge(results []SourceResult) []Track {
	seen := make(map[string]struct{})
	var pool []Track

	for _, result := range results {
		if !result.Available() {
			continue
		}
		for _, track := range result.Tracks {
			if track.ID == "" {
				continue
			}
			if _, ok := seen[track.ID]; ok {
				continue
			}
			seen[track.ID] = struct{}{}
			pool = append(pool, track)
		}
	}

	return pool
}
