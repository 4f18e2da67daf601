package schedule_appointment

import (
	"context"

	scheduleAppointment "github.com/QueueM/QueueMe-SchedulingService/internal/usecase/schedule_appointment"
)

// ScheduleAppointmentUseCase интерфейс use case записи на услуги
type ScheduleAppointmentUseCase interface {
	Execute(ctx context.Context, req *scheduleAppointment.Request) (*scheduleAppointment.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
