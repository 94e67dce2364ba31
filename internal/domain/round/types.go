// Package round содержит сбор кандидатов и выбор трека для очередного раунда игры.
package round

import (
	"context"
	"slices"
)

// Track представляет трек, который можно загадать
type Track struct {
	ID          string   `json:"id"`
	Title       string   `json:"name"`
	Artists     []string `json:"artists"`
	PlayableRef string   `json:"uri,omitempty"`
	PreviewURL  string   `json:"preview_url,omitempty"`
}

// Answer - минимальная проекция загаданного трека, хранимая в сессии
type Answer struct {
	ID              string   `json:"id"`
	Title           string   `json:"name"`
	NormalizedTitle string   `json:"normalized_name"`
	Artists         []string `json:"artists"`
	PlayableRef     string   `json:"uri,omitempty"`
}

// State - состояние раундов одной игровой сессии.
// UsedIDs только растет в пределах сессии.
type State struct {
	UsedIDs       []string `json:"used_ids"`
	CurrentAnswer *Answer  `json:"current_answer,omitempty"`
}

// IsUsed проверяет, показывался ли трек в этой сессии
func (s State) IsUsed(id string) bool {
	return slices.Contains(s.UsedIDs, id)
}

// HasAnswer проверяет, загадан ли сейчас трек
func (s State) HasAnswer() bool {
	return s.CurrentAnswer != nil
}

// TimeWindow - окно времени для топа треков пользователя
type TimeWindow string

// Окна времени каталога
const (
	ShortTerm  TimeWindow = "short_term"
	MediumTerm TimeWindow = "medium_term"
	LongTerm   TimeWindow = "long_term"
)

// Catalogue - три источника сигналов о прослушиваниях пользователя
type Catalogue interface {
	// CurrentlyPlaying возвращает текущий трек или nil, если ничего не играет
	CurrentlyPlaying(ctx context.Context) (*Track, error)
	// RecentlyPlayed возвращает до limit недавно прослушанных треков
	RecentlyPlayed(ctx context.Context, limit int) ([]Track, error)
	// TopTracks возвращает до limit самых популярных треков пользователя за окно
	TopTracks(ctx context.Context, limit int, window TimeWindow) ([]Track, error)
}
