package conflict

import "errors"

var (
	// ErrDataUnavailable возвращается, когда слой данных недоступен
	// Вызывающая сторона трактует это как временный сбой, безопасный для повтора
	ErrDataUnavailable = errors.New("conflict.service: bookings data unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("conflict.service: invalid input")
)
