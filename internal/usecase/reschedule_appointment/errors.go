package reschedule_appointment

import "errors"

var (
	// ErrInvalidInput возвращается при ошибке валидации запроса
	ErrInvalidInput = errors.New("reschedule_appointment: invalid input")

	// ErrAppointmentNotFound возвращается, когда бронирование не найдено
	ErrAppointmentNotFound = errors.New("reschedule_appointment: appointment not found")

	// ErrNotReschedulable возвращается, когда бронирование уже отменено,
	// перенесено или завершено
	ErrNotReschedulable = errors.New("reschedule_appointment: appointment is not reschedulable")

	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("reschedule_appointment: internal error")
)
