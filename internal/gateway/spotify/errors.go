package spotify

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"

	"spordle/internal/domain/round"
)

// ErrNoActiveDevice - у пользователя нет активного устройства воспроизведения
var ErrNoActiveDevice = errors.New("no active device")

// apiStatus извлекает HTTP статус из ошибки Spotify API
func apiStatus(err error) (int, bool) {
	var apiErr spotify.Error
	if errors.As(err, &apiErr) {
		return apiErr.Status, true
	}
	var apiErrPtr *spotify.Error
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Status, true
	}
	return 0, false
}

// classify оборачивает ошибки авторизации в round.ErrReauthRequired
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return fmt.Errorf("%s: %w: %v", op, round.ErrReauthRequired, err)
	}

	if status, ok := apiStatus(err); ok && status == http.StatusUnauthorized {
		return fmt.Errorf("%s: %w: %v", op, round.ErrReauthRequired, err)
	}

	return fmt.Errorf("%s: %w", op, err)
}

// isTransient сообщает, имеет ли смысл повторить запрос
func isTransient(err error) bool {
	status, ok := apiStatus(err)
	if !ok {
		return false
	}
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}
