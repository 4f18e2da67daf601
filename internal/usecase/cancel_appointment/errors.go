package cancel_appointment

import "errors"

var (
	// ErrInvalidInput возвращается при ошибке валидации запроса
	ErrInvalidInput = errors.New("cancel_appointment: invalid input")

	// ErrAppointmentNotFound возвращается, когда бронирование не найдено
	ErrAppointmentNotFound = errors.New("cancel_appointment: appointment not found")

	// ErrAccessDenied возвращается, когда бронирование принадлежит
	// другому клиенту
	ErrAccessDenied = errors.New("cancel_appointment: access denied")

	// ErrCannotCancel возвращается, когда визит уже начался, завершился
	// или бронирование уже отменено
	ErrCannotCancel = errors.New("cancel_appointment: appointment cannot be cancelled")

	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("cancel_appointment: internal error")
)
