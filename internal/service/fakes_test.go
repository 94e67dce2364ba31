package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"spordle/internal/domain/round"
	"spordle/internal/model"
)

type memSessions struct {
	mu       sync.Mutex
	sessions map[string]*model.GameSession
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: make(map[string]*model.GameSession)}
}

func (m *memSessions) Get(_ context.Context, id string) (*model.GameSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	cp := *s
	cp.UsedIDs = slices.Clone(s.UsedIDs)
	return &cp, nil
}

func (m *memSessions) Create(_ context.Context, session *model.GameSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *session
	m.sessions[session.ID] = &cp
	return nil
}

func (m *memSessions) SetOAuthState(_ context.Context, id, state string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return model.ErrSessionNotFound
	}
	s.OAuthState = state
	return nil
}

func (m *memSessions) Touch(_ context.Context, id string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return model.ErrSessionNotFound
	}
	s.ExpiresAt = expiresAt
	return nil
}

func (m *memSessions) WithLock(_ context.Context, id string, fn model.RoundMutator) (round.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return round.State{}, model.ErrSessionNotFound
	}
	next, err := fn(s.RoundState())
	if err != nil {
		return round.State{}, err
	}
	s.ApplyRoundState(next)
	return s.RoundState(), nil
}

func (m *memSessions) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memSessions) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.ExpiresAt.Before(now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

func (m *memSessions) ids() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		out = append(out, id)
	}
	return out
}

type memTokens struct {
	mu       sync.Mutex
	tokens   map[string]*model.OAuthToken
	sessions *memSessions
}

func newMemTokens(sessions *memSessions) *memTokens {
	return &memTokens{tokens: make(map[string]*model.OAuthToken), sessions: sessions}
}

func (m *memTokens) Get(_ context.Context, sessionID string) (*model.OAuthToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[sessionID]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (m *memTokens) Save(_ context.Context, token *model.OAuthToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *token
	m.tokens[token.SessionID] = &cp
	return nil
}

func (m *memTokens) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, sessionID)
	return nil
}

func (m *memTokens) DeleteOrphaned(context.Context) (int, error) {
	live := m.sessions.ids()
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id := range m.tokens {
		if !slices.Contains(live, id) {
			delete(m.tokens, id)
			n++
		}
	}
	return n, nil
}

type memStats struct {
	mu       sync.Mutex
	stats    map[string]*model.GuessStats
	sessions *memSessions
}

func newMemStats(sessions *memSessions) *memStats {
	return &memStats{stats: make(map[string]*model.GuessStats), sessions: sessions}
}

func (m *memStats) entry(sessionID string) *model.GuessStats {
	s, ok := m.stats[sessionID]
	if !ok {
		s = &model.GuessStats{SessionID: sessionID}
		m.stats[sessionID] = s
	}
	return s
}

func (m *memStats) Get(_ context.Context, sessionID string) (*model.GuessStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *m.entry(sessionID)
	return &cp, nil
}

func (m *memStats) RecordRound(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entry(sessionID).Rounds++
	return nil
}

func (m *memStats) RecordAttempt(_ context.Context, sessionID string, accepted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.entry(sessionID)
	s.Attempts++
	if accepted {
		s.Correct++
	}
	return nil
}

func (m *memStats) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stats, sessionID)
	return nil
}

func (m *memStats) DeleteOrphaned(context.Context) (int, error) {
	live := m.sessions.ids()
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id := range m.stats {
		if !slices.Contains(live, id) {
			delete(m.stats, id)
			n++
		}
	}
	return n, nil
}

type fakeUserClient struct {
	current   *round.Track
	recent    []round.Track
	recentErr error
	top       []round.Track

	device    string
	deviceErr error
	playErr   error

	playedURI      string
	playedDevice   string
	playedDuration time.Duration

	token *oauth2.Token
}

func (c *fakeUserClient) CurrentlyPlaying(context.Context) (*round.Track, error) {
	return c.current, nil
}

func (c *fakeUserClient) RecentlyPlayed(context.Context, int) ([]round.Track, error) {
	return c.recent, c.recentErr
}

func (c *fakeUserClient) TopTracks(context.Context, int, round.TimeWindow) ([]round.Track, error) {
	return c.top, nil
}

func (c *fakeUserClient) ActiveDevice(context.Context) (string, error) {
	return c.device, c.deviceErr
}

func (c *fakeUserClient) PlaySnippet(_ context.Context, deviceID, uri string, duration time.Duration) error {
	c.playedDevice = deviceID
	c.playedURI = uri
	c.playedDuration = duration
	return c.playErr
}

func (c *fakeUserClient) Token() (*oauth2.Token, error) {
	return c.token, nil
}

type fakeAuthorizer struct {
	client      *fakeUserClient
	exchanged   *oauth2.Token
	exchangeErr error
	lastState   string
}

func (a *fakeAuthorizer) AuthURL(state string) string {
	a.lastState = state
	return "https://accounts.spotify.com/authorize?state=" + state
}

func (a *fakeAuthorizer) Exchange(context.Context, string) (*oauth2.Token, error) {
	return a.exchanged, a.exchangeErr
}

func (a *fakeAuthorizer) NewUserClient(_ context.Context, token *oauth2.Token) UserClient {
	if a.client.token == nil {
		a.client.token = token
	}
	return a.client
}

type staticSettings GameSettings

func (s staticSettings) Current() GameSettings {
	return GameSettings(s)
}
