package spotify

import (
	"context"
	"time"

	"github.com/zmb3/spotify/v2"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"spordle/internal/domain/round"
)

// UserClient представляет клиент Spotify API от имени одного пользователя
type UserClient struct {
	client  *spotify.Client
	timeout time.Duration
	retry   RetryConfig
	logger  *zap.Logger
}

var _ round.Catalogue = (*UserClient)(nil)

func newUserClient(client *spotify.Client, timeout time.Duration, retry RetryConfig, logger *zap.Logger) *UserClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &UserClient{
		client:  client,
		timeout: timeout,
		retry:   retry,
		logger:  logger,
	}
}

// Token возвращает актуальный (возможно обновленный) токен пользователя
func (c *UserClient) Token() (*oauth2.Token, error) {
	return c.client.Token()
}

// call выполняет запрос с таймаутом и повторами
func (c *UserClient) call(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	err := withRetry(ctx, c.logger, c.retry, op, func() error {
		reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		return fn(reqCtx)
	})
	return classify(op, err)
}

// CurrentlyPlaying возвращает трек, который сейчас играет, или nil
func (c *UserClient) CurrentlyPlaying(ctx context.Context) (*round.Track, error) {
	var playing *spotify.CurrentlyPlaying
	err := c.call(ctx, "currently playing", func(ctx context.Context) error {
		var err error
		playing, err = c.client.PlayerCurrentlyPlaying(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	if playing == nil || playing.Item == nil {
		return nil, nil
	}

	track := toTrack(playing.Item.SimpleTrack)
	return &track, nil
}

// RecentlyPlayed возвращает до limit недавно прослушанных треков
func (c *UserClient) RecentlyPlayed(ctx context.Context, limit int) ([]round.Track, error) {
	var items []spotify.RecentlyPlayedItem
	err := c.call(ctx, "recently played", func(ctx context.Context) error {
		var err error
		items, err = c.client.PlayerRecentlyPlayedOpt(ctx, &spotify.RecentlyPlayedOptions{Limit: spotify.Numeric(limit)})
		return err
	})
	if err != nil {
		return nil, err
	}

	tracks := make([]round.Track, 0, len(items))
	for _, item := range items {
		tracks = append(tracks, toTrack(item.Track))
	}
	return tracks, nil
}

// TopTracks возвращает до limit самых прослушиваемых треков за окно времени
func (c *UserClient) TopTracks(ctx context.Context, limit int, window round.TimeWindow) ([]round.Track, error) {
	var page *spotify.FullTrackPage
	err := c.call(ctx, "top tracks", func(ctx context.Context) error {
		var err error
		page, err = c.client.CurrentUsersTopTracks(ctx,
			spotify.Limit(limit),
			spotify.Timerange(spotify.Range(window)))
		return err
	})
	if err != nil {
		return nil, err
	}

	if page == nil {
		return nil, nil
	}

	tracks := make([]round.Track, 0, len(page.Tracks))
	for _, t := range page.Tracks {
		tracks = append(tracks, toTrack(t.SimpleTrack))
	}
	return tracks, nil
}

// ActiveDevice возвращает ID активного устройства воспроизведения
func (c *UserClient) ActiveDevice(ctx context.Context) (string, error) {
	var devices []spotify.PlayerDevice
	err := c.call(ctx, "player devices", func(ctx context.Context) error {
		var err error
		devices, err = c.client.PlayerDevices(ctx)
		return err
	})
	if err != nil {
		return "", err
	}

	for _, d := range devices {
		if d.Active {
			return string(d.ID), nil
		}
	}
	return "", ErrNoActiveDevice
}

// PlaySnippet запускает трек с начала на устройстве, ждет duration и ставит на паузу.
// Отмена ctx прерывает ожидание, но пауза все равно отправляется.
func (c *UserClient) PlaySnippet(ctx context.Context, deviceID, uri string, duration time.Duration) error {
	id := spotify.ID(deviceID)

	err := c.call(ctx, "start playback", func(ctx context.Context) error {
		return c.client.PlayOpt(ctx, &spotify.PlayOptions{
			DeviceID: &id,
			URIs:     []spotify.URI{spotify.URI(uri)},
		})
	})
	if err != nil {
		return err
	}

	c.logger.Debug("Snippet playback started",
		zap.String("device_id", deviceID),
		zap.String("uri", uri),
		zap.Duration("duration", duration))

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		c.logger.Debug("Snippet wait interrupted", zap.Error(ctx.Err()))
	case <-timer.C:
	}

	return c.call(context.WithoutCancel(ctx), "pause playback", func(ctx context.Context) error {
		return c.client.PauseOpt(ctx, &spotify.PlayOptions{DeviceID: &id})
	})
}

// toTrack переводит трек Spotify в трек игры
func toTrack(t spotify.SimpleTrack) round.Track {
	artists := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, a.Name)
	}

	return round.Track{
		ID:          string(t.ID),
		Title:       t.Name,
		Artists:     artists,
		PlayableRef: string(t.URI),
		PreviewURL:  t.PreviewURL,
	}
}
