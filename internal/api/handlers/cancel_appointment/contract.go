package cancel_appointment

import (
	"context"

	cancelAppointment "github.com/QueueM/QueueMe-SchedulingService/internal/usecase/cancel_appointment"
)

// CancelAppointmentUseCase интерфейс use case отмены бронирования
type CancelAppointmentUseCase interface {
	Execute(ctx context.Context, req *cancelAppointment.Request) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
