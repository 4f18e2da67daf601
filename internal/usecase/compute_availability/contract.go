package compute_availability

import (
	"context"
	"time"

	"github.com/QueueM/QueueMe-SchedulingService/internal/domain"
	"github.com/QueueM/QueueMe-SchedulingService/internal/integrations/directoryservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetBySpecialistAndDate получает бронирования специалиста на дату
	GetBySpecialistAndDate(ctx context.Context, specialistID int64, date time.Time) ([]*domain.ExistingBooking, error)

	// CountActiveInWindow считает активные бронирования специалиста в окне дат
	CountActiveInWindow(ctx context.Context, specialistID int64, from, to time.Time) (int, error)
}

// DirectoryClient интерфейс клиента справочника (салоны, услуги, специалисты)
type DirectoryClient interface {
	GetShop(ctx context.Context, shopID int64) (*directoryservice.Shop, error)
	GetService(ctx context.Context, shopID, serviceID int64) (*directoryservice.Service, error)
	GetSpecialist(ctx context.Context, specialistID int64) (*directoryservice.Specialist, error)
	ListSpecialistsForService(ctx context.Context, shopID, serviceID int64) ([]*directoryservice.Specialist, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
