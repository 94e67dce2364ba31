package round

import "errors"

var (
	// ErrNoMoreTracks - в пуле не осталось подходящих неиспользованных треков.
	// Это нормальный исход игры, а не сбой.
	ErrNoMoreTracks = errors.New("no more tracks")

	// ErrReauthRequired - каталог отклонил учетные данные пользователя
	ErrReauthRequired = errors.New("reauthentication required")
)
