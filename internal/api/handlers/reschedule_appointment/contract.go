package reschedule_appointment

import (
	"context"

	rescheduleAppointment "github.com/QueueM/QueueMe-SchedulingService/internal/usecase/reschedule_appointment"
)

// RescheduleAppointmentUseCase интерфейс use case переноса бронирования
type RescheduleAppointmentUseCase interface {
	Execute(ctx context.Context, req *rescheduleAppointment.Request) (*rescheduleAppointment.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
