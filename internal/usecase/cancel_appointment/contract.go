package cancel_appointment

import (
	"context"
	"time"

	"github.com/QueueM/QueueMe-SchedulingService/internal/domain"
)

// AppointmentRepository интерфейс репозитория бронирований
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ExistingBooking, error)
	MarkCancelled(ctx context.Context, id int64, status domain.BookingStatus, reason *string) error
}

// AvailabilityInvalidator сбрасывает кэш доступности: отмененное
// бронирование освобождает время специалиста
type AvailabilityInvalidator interface {
	InvalidateCache(shopID, specialistID int64, date time.Time)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
