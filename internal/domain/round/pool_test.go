package round

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCatalogue struct {
	current    *Track
	currentErr error
	recent     []Track
	recentErr  error
	top        []Track
	topErr     error

	recentLimit int
	topLimit    int
	topWindow   TimeWindow
}

func (f *fakeCatalogue) CurrentlyPlaying(context.Context) (*Track, error) {
	return f.current, f.currentErr
}

func (f *fakeCatalogue) RecentlyPlayed(_ context.Context, limit int) ([]Track, error) {
	f.recentLimit = limit
	return f.recent, f.recentErr
}

func (f *fakeCatalogue) TopTracks(_ context.Context, limit int, window TimeWindow) ([]Track, error) {
	f.topLimit = limit
	f.topWindow = window
	return f.top, f.topErr
}

func noShuffle(int, func(i, j int)) {}

func newTestBuilder() *PoolBuilder {
	return NewPoolBuilder(PoolOptions{Shuffle: noShuffle}, zap.NewNop())
}

func ids(tracks []Track) []string {
	out := make([]string, 0, len(tracks))
	for _, t := range tracks {
		out = append(out, t.ID)
	}
	return out
}

func TestPoolBuilder_DeduplicatesInSourceOrder(t *testing.T) {
	catalogue := &fakeCatalogue{
		current: &Track{ID: "1", Title: "Current copy"},
		recent: []Track{
			{ID: "2", Title: "Recent two"},
			{ID: "1", Title: "Recent copy"},
			{ID: "2", Title: "Recent two again"},
		},
		top: []Track{
			{ID: "3", Title: "Top three"},
			{ID: "2", Title: "Top copy"},
			{ID: "", Title: "No id"},
		},
	}

	pool, err := newTestBuilder().Build(context.Background(), catalogue)
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2", "3"}, ids(pool))
	assert.Equal(t, "Current copy", pool[0].Title)
	assert.Equal(t, "Recent two", pool[1].Title)
	assert.Equal(t, DefaultRecentLimit, catalogue.recentLimit)
	assert.Equal(t, DefaultTopLimit, catalogue.topLimit)
	assert.Equal(t, MediumTerm, catalogue.topWindow)
}

func TestPoolBuilder_SourceFailuresAreSwallowed(t *testing.T) {
	catalogue := &fakeCatalogue{
		currentErr: errors.New("player unavailable"),
		recent:     []Track{{ID: "2", Title: "Recent"}},
		topErr:     errors.New("boom"),
	}

	pool, err := newTestBuilder().Build(context.Background(), catalogue)
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, ids(pool))
}

func TestPoolBuilder_AllSourcesFail(t *testing.T) {
	catalogue := &fakeCatalogue{
		currentErr: errors.New("a"),
		recentErr:  errors.New("b"),
		topErr:     errors.New("c"),
	}

	pool, err := newTestBuilder().Build(context.Background(), catalogue)
	require.NoError(t, err)
	assert.Empty(t, pool)
}

func TestPoolBuilder_NothingPlaying(t *testing.T) {
	catalogue := &fakeCatalogue{
		top: []Track{{ID: "9", Title: "Top"}},
	}

	pool, err := newTestBuilder().Build(context.Background(), catalogue)
	require.NoError(t, err)
	assert.Equal(t, []string{"9"}, ids(pool))
}

func TestPoolBuilder_ReauthIsSurfaced(t *testing.T) {
	catalogue := &fakeCatalogue{
		recent: []Track{{ID: "2", Title: "Recent"}},
		topErr: fmt.Errorf("top tracks: %w", ErrReauthRequired),
	}

	_, err := newTestBuilder().Build(context.Background(), catalogue)
	assert.ErrorIs(t, err, ErrReauthRequired)
}

func TestPoolBuilder_Shuffles(t *testing.T) {
	reverse := func(n int, swap func(i, j int)) {
		for i := 0; i < n/2; i++ {
			swap(i, n-1-i)
		}
	}
	builder := NewPoolBuilder(PoolOptions{Shuffle: reverse}, zap.NewNop())

	catalogue := &fakeCatalogue{
		recent: []Track{{ID: "1"}, {ID: "2"}, {ID: "3"}},
	}

	pool, err := builder.Build(context.Background(), catalogue)
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "2", "1"}, ids(pool))
}

func TestPoolBuilder_Collect(t *testing.T) {
	catalogue := &fakeCatalogue{
		current:   &Track{ID: "1"},
		recentErr: errors.New("down"),
		top:       []Track{{ID: "3"}},
	}

	results := newTestBuilder().Collect(context.Background(), catalogue)
	require.Len(t, results, 3)

	assert.Equal(t, SourceCurrentlyPlaying, results[0].Source)
	assert.True(t, results[0].Available())
	assert.Len(t, results[0].Tracks, 1)

	assert.Equal(t, SourceRecentlyPlayed, results[1].Source)
	assert.False(t, results[1].Available())
	assert.Empty(t, results[1].Tracks)

	assert.Equal(t, SourceTopTracks, results[2].Source)
	assert.True(t, results[2].Available())
}

func TestMerge_DistinctCount(t *testing.T) {
	results := []SourceResult{
		{Source: SourceCurrentlyPlaying, Tracks: []Track{{ID: "a"}}},
		{Source: SourceRecentlyPlayed, Tracks: []Track{{ID: "b"}, {ID: "a"}, {ID: "c"}}},
		{Source: SourceTopTracks, Tracks: []Track{{ID: "c"}, {ID: "d"}, {ID: "b"}}},
	}

	pool := Merge(results)
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(pool))
}
