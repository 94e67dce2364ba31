package matching

import "errors"

// ErrMissingInput возвращается, если ответ пользователя или правильное название пусты
var ErrMissingInput = errors.New("missing guess or correct title")
