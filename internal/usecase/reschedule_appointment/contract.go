package reschedule_appointment

import (
	"context"
	"time"

	"github.com/QueueM/QueueMe-SchedulingService/internal/domain"
	scheduler "github.com/QueueM/QueueMe-SchedulingService/internal/usecase/schedule_appointment"
)

// Scheduler интерфейс оркестратора записи: перенос - это свежий цикл
// подбора с атомарным обменом старого бронирования на новое
type Scheduler interface {
	Execute(ctx context.Context, req *scheduler.Request) (*scheduler.Response, error)
}

// AppointmentRepository интерфейс чтения бронирований
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ExistingBooking, error)
}

// AvailabilityInvalidator сбрасывает кэш доступности по дате старого
// бронирования после успешного переноса
type AvailabilityInvalidator interface {
	InvalidateCache(shopID, specialistID int64, date time.Time)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
