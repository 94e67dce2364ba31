package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"spordle/internal/config"
	"spordle/internal/domain/matching"
	"spordle/internal/domain/round"
	"spordle/internal/model"
	"spordle/internal/service"
)

const testSessionID = "2f1c7e0a-5b7d-4d3e-9a61-0c6f5d1e8b42"

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeSessions struct {
	authenticated bool
	loginErr      error
	ensured       []string
	loggedOut     bool
}

func (f *fakeSessions) EnsureSession(_ context.Context, id string) (*model.GameSession, error) {
	f.ensured = append(f.ensured, id)
	return &model.GameSession{ID: testSessionID}, nil
}

func (f *fakeSessions) StartLogin(_ context.Context, sessionID string) (string, error) {
	return "https://accounts.example/authorize?state=" + sessionID, nil
}

func (f *fakeSessions) CompleteLogin(_ context.Context, _, code, state string) error {
	if code == "" {
		return service.ErrMissingCode
	}
	if state != "ok" {
		return service.ErrStateMismatch
	}
	return f.loginErr
}

func (f *fakeSessions) Logout(context.Context, string) error {
	f.loggedOut = true
	return nil
}

func (f *fakeSessions) IsAuthenticated(context.Context, string) (bool, error) {
	return f.authenticated, nil
}

type fakeGame struct {
	track       round.Track
	nextErr     error
	verdict     matching.Verdict
	guessErr    error
	gotGuess    string
	gotFallback string
	gotDuration time.Duration
	playErr     error
	resetCalled bool
}

func (f *fakeGame) NextTrack(context.Context, string) (round.Track, error) {
	return f.track, f.nextErr
}

func (f *fakeGame) CheckGuess(_ context.Context, _, guess, fallback string) (matching.Verdict, error) {
	f.gotGuess, f.gotFallback = guess, fallback
	return f.verdict, f.guessErr
}

func (f *fakeGame) PlaySnippet(_ context.Context, _, _ string, d time.Duration) (time.Duration, error) {
	f.gotDuration = d
	return d, f.playErr
}

func (f *fakeGame) Stats(context.Context, string) (*model.GuessStats, error) {
	return &model.GuessStats{Rounds: 2, Attempts: 4, Correct: 1}, nil
}

func (f *fakeGame) ResetRound(context.Context, string) error {
	f.resetCalled = true
	return nil
}

func newRouter(sessions *fakeSessions, game *fakeGame) *gin.Engine {
	cookie := config.SessionConfig{CookieName: "spordle_session", TTL: time.Hour}
	h := New(sessions, game, cookie, zap.NewNop())

	r := gin.New()
	h.Register(r, func(c *gin.Context) { c.Next() })
	return r
}

func perform(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.AddCookie(&http.Cookie{Name: "spordle_session", Value: testSessionID})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSession_SetsCookie(t *testing.T) {
	sessions := &fakeSessions{}
	w := perform(newRouter(sessions, &fakeGame{}), http.MethodGet, "/api/session-info", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"needs_auth":true}`, w.Body.String())
	assert.Equal(t, []string{testSessionID}, sessions.ensured)

	cookie := w.Header().Get("Set-Cookie")
	assert.Contains(t, cookie, "spordle_session="+testSessionID)
	assert.Contains(t, cookie, "HttpOnly")
	assert.Contains(t, cookie, "SameSite=Lax")
}

func TestLogin_Redirects(t *testing.T) {
	w := perform(newRouter(&fakeSessions{}, &fakeGame{}), http.MethodGet, "/login", "")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://accounts.example/authorize?state="+testSessionID, w.Header().Get("Location"))
}

func TestCallback(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		loginErr error
		wantCode int
		wantBody string
		wantLoc  string
	}{
		{name: "success", query: "?code=abc&state=ok", wantCode: http.StatusFound, wantLoc: "/game"},
		{name: "missing code", query: "?state=ok", wantCode: http.StatusBadRequest, wantBody: "Missing code"},
		{name: "state mismatch", query: "?code=abc&state=bad", wantCode: http.StatusBadRequest, wantBody: "State mismatch"},
		{name: "exchange failure", query: "?code=abc&state=ok", loginErr: errors.New("boom"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(newRouter(&fakeSessions{loginErr: tt.loginErr}, &fakeGame{}), http.MethodGet, "/callback"+tt.query, "")

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
			if tt.wantLoc != "" {
				assert.Equal(t, tt.wantLoc, w.Header().Get("Location"))
			}
		})
	}
}

func TestLogout(t *testing.T) {
	sessions := &fakeSessions{}
	w := perform(newRouter(sessions, &fakeGame{}), http.MethodGet, "/logout", "")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.True(t, sessions.loggedOut)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, -1, cookies[len(cookies)-1].MaxAge)
}

func TestGamePage(t *testing.T) {
	w := perform(newRouter(&fakeSessions{}, &fakeGame{}), http.MethodGet, "/game", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = perform(newRouter(&fakeSessions{authenticated: true}, &fakeGame{}), http.MethodGet, "/game", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/seed-track")
}

func TestSeedTrack(t *testing.T) {
	game := &fakeGame{track: round.Track{ID: "t1", Title: "Song", Artists: []string{"A"}, PlayableRef: "spotify:track:t1"}}
	w := perform(newRouter(&fakeSessions{}, game), http.MethodGet, "/api/seed-track", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"t1","name":"Song","artists":["A"],"uri":"spotify:track:t1","preview_url":""}`, w.Body.String())
}

func TestSeedTrack_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{name: "exhausted", err: round.ErrNoMoreTracks, wantCode: http.StatusNotFound, wantBody: `{"error":"no-more-tracks"}`},
		{name: "reauth", err: round.ErrReauthRequired, wantCode: http.StatusUnauthorized, wantBody: `{"needs_auth":true}`},
		{name: "no token", err: service.ErrNotAuthenticated, wantCode: http.StatusUnauthorized, wantBody: `{"needs_auth":true}`},
		{name: "unexpected", err: errors.New("db down"), wantCode: http.StatusInternalServerError, wantBody: `{"error":"db down"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(newRouter(&fakeSessions{}, &fakeGame{nextErr: tt.err}), http.MethodGet, "/api/seed-track", "")
			assert.Equal(t, tt.wantCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestCheckGuess(t *testing.T) {
	game := &fakeGame{verdict: matching.Verdict{
		Accepted:         true,
		Score:            97,
		NormalizedAnswer: "hello",
		RawAnswerTitle:   "Hello (Remastered)",
	}}
	w := perform(newRouter(&fakeSessions{}, game), http.MethodPost, "/api/check-guess", `{"guess":"  helo ","correct_title":"Hello"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"accepted":true,"guess":"helo","ratio":97,"normalized_answer":"hello","raw_answer_title":"Hello (Remastered)"}`, w.Body.String())
	assert.Equal(t, "  helo ", game.gotGuess)
	assert.Equal(t, "Hello", game.gotFallback)
}

func TestCheckGuess_MissingInput(t *testing.T) {
	game := &fakeGame{guessErr: matching.ErrMissingInput}
	w := perform(newRouter(&fakeSessions{}, game), http.MethodPost, "/api/check-guess", `{"guess":""}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"missing-guess-or-correct-title"}`, w.Body.String())
}

func TestPlaySnippet(t *testing.T) {
	game := &fakeGame{}
	r := newRouter(&fakeSessions{}, game)

	w := perform(r, http.MethodPost, "/api/play-snippet", `{"uri":"spotify:track:t1"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5*time.Second, game.gotDuration)

	w = perform(r, http.MethodPost, "/api/play-snippet", `{"uri":"spotify:track:t1","duration":3}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3*time.Second, game.gotDuration)

	w = perform(r, http.MethodPost, "/api/play-snippet", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlaySnippet_NoActiveDevice(t *testing.T) {
	game := &fakeGame{playErr: service.ErrNoActiveDevice}
	w := perform(newRouter(&fakeSessions{}, game), http.MethodPost, "/api/play-snippet", `{"uri":"spotify:track:t1"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"no-active-device"}`, w.Body.String())
}

func TestStatsAndReset(t *testing.T) {
	game := &fakeGame{}
	r := newRouter(&fakeSessions{}, game)

	w := perform(r, http.MethodGet, "/api/stats", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"rounds":2,"attempts":4,"correct":1,"accuracy":0.25}`, w.Body.String())

	w = perform(r, http.MethodPost, "/api/reset", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, game.resetCalled)
}
