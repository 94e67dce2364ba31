package service

import "errors"

// Ошибки сервисного слоя
var (
	// ErrNotAuthenticated - у сессии нет токена Spotify
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNoActiveDevice - у пользователя нет активного устройства воспроизведения
	ErrNoActiveDevice = errors.New("no active device")
	// ErrMissingCode - callback пришел без кода авторизации
	ErrMissingCode = errors.New("missing code")
	// ErrStateMismatch - state параметр callback не совпадает с сохраненным
	ErrStateMismatch = errors.New("oauth state mismatch")
)
