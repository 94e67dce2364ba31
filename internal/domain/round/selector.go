package round

import (
	"math/rand"
	"slices"

	"spordle/internal/domain/matching"
)

// Selector выбирает трек для нового раунда
type Selector struct {
	eligible Eligibility
	intn     func(n int) int
}

// NewSelector создает селектор. Если фильтр не задан, подходят все треки.
func NewSelector(eligible Eligibility) *Selector {
	if eligible == nil {
		eligible = AnyTitle
	}
	return &Selector{
		eligible: eligible,
		intn:     rand.Intn,
	}
}

// WithRand подменяет источник случайных чисел
func (s *Selector) WithRand(intn func(n int) int) *Selector {
	s.intn = intn
	return s
}

// Candidates возвращает треки пула, которые можно загадать в этом состоянии
func (s *Selector) Candidates(pool []Track, state State) []Track {
	var candidates []Track
	for _, track := range pool {
		if state.IsUsed(track.ID) || !s.eligible(track) {
			continue
		}
		candidates = append(candidates, track)
	}
	return candidates
}

// Pick выбирает случайный подходящий трек и возвращает новое состояние, в котором
// трек стал текущим ответом и помечен как использованный. Исходное состояние не меняется.
func (s *Selector) Pick(pool []Track, state State) (Track, State, error) {
	candidates := s.Candidates(pool, state)
	if len(candidates) == 0 {
		return Track{}, state, ErrNoMoreTracks
	}

	track := candidates[s.intn(len(candidates))]

	next := State{
		UsedIDs: append(slices.Clone(state.UsedIDs), track.ID),
		CurrentAnswer: &Answer{
			ID:              track.ID,
			Title:           track.Title,
			NormalizedTitle: matching.NormalizeOrFallback(track.Title),
			Artists:         slices.Clone(track.Artists),
			PlayableRef:     track.PlayableRef,
		},
	}

	return track, next, nil
}
