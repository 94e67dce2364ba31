package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeDB struct {
	err error
}

func (f fakeDB) PingContext(context.Context) error {
	return f.err
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestServer_Healthy(t *testing.T) {
	s := NewServer("0", zap.NewNop(), fakeDB{})

	for _, path := range []string{"/health", "/ready", "/live"} {
		w := get(s, path)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	}
	assert.Contains(t, get(s, "/health").Body.String(), `"status":"healthy"`)
}

func TestServer_DatabaseDown(t *testing.T) {
	s := NewServer("0", zap.NewNop(), fakeDB{err: errors.New("connection refused")})

	assert.Equal(t, http.StatusServiceUnavailable, get(s, "/health").Code)
	assert.Contains(t, get(s, "/ready").Body.String(), `"status":"not ready"`)
	assert.Equal(t, http.StatusOK, get(s, "/live").Code)
}

func TestServer_ComponentCheck(t *testing.T) {
	s := NewServer("0", zap.NewNop(), fakeDB{})
	s.AddCheck("config", func(context.Context) error { return errors.New("stale") })

	assert.Equal(t, http.StatusServiceUnavailable, get(s, "/health").Code)
	assert.Equal(t, http.StatusOK, get(s, "/ready").Code)
}
