package get_appointment

import "errors"

var (
	// ErrInvalidInput возвращается при ошибке валидации запроса
	ErrInvalidInput = errors.New("get_appointment: invalid input")

	// ErrAppointmentNotFound возвращается, когда бронирование не найдено
	ErrAppointmentNotFound = errors.New("get_appointment: appointment not found")

	// ErrAccessDenied возвращается, когда бронирование принадлежит
	// другому клиенту
	ErrAccessDenied = errors.New("get_appointment: access denied")

	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("get_appointment: internal error")
)
