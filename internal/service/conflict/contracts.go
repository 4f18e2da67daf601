package conflict

import (
	"context"
	"time"

	"github.com/QueueM/QueueMe-SchedulingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetBySpecialistAndDate получает бронирования специалиста на дату
	GetBySpecialistAndDate(ctx context.Context, specialistID int64, date time.Time) ([]*domain.ExistingBooking, error)

	// GetByResourceAndDate получает бронирования ресурса (кабинет, оборудование)
	// на дату по всем специалистам
	GetByResourceAndDate(ctx context.Context, resourceID int64, date time.Time) ([]*domain.ExistingBooking, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
