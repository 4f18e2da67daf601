package get_appointment

import (
	"context"

	"github.com/QueueM/QueueMe-SchedulingService/internal/domain"
)

// GetAppointmentUseCase интерфейс use case чтения бронирования
type GetAppointmentUseCase interface {
	Execute(ctx context.Context, appointmentID, customerID int64) (*domain.ExistingBooking, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
