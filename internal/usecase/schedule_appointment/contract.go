package schedule_appointment

import (
	"context"
	"time"

	"github.com/QueueM/QueueMe-SchedulingService/internal/domain"
	"github.com/QueueM/QueueMe-SchedulingService/internal/service/allocation"
	"github.com/QueueM/QueueMe-SchedulingService/internal/service/conflict"
	availability "github.com/QueueM/QueueMe-SchedulingService/internal/usecase/compute_availability"
)

// AvailabilityService интерфейс расчета доступных слотов
type AvailabilityService interface {
	Execute(ctx context.Context, req *availability.Request) (*availability.Response, error)

	// InvalidateCache сбрасывает кэш доступности после успешной записи
	InvalidateCache(shopID, specialistID int64, date time.Time)
}

// ConflictService интерфейс проверки конфликтов. Повторная проверка перед
// коммитом выполняется внутри транзакции: контекст несет исполнитель запросов
type ConflictService interface {
	Check(ctx context.Context, specialistID int64, proposedSlot domain.TimeRange, svc *domain.ServiceSpec, resourceID *int64) (conflict.Result, error)
}

// AllocationService интерфейс ранжирования специалистов
type AllocationService interface {
	Weights() allocation.Weights
	Rank(candidates []domain.Candidate, profiles map[int64]*domain.SpecialistProfile, customerID int64, svc *domain.ServiceSpec) ([]domain.Candidate, error)
	RankWith(weights allocation.Weights, candidates []domain.Candidate, profiles map[int64]*domain.SpecialistProfile, customerID int64, svc *domain.ServiceSpec) ([]domain.Candidate, error)
}

// BookingRepository интерфейс чтения бронирований (для оценки фрагментации
// расписания в стратегии resource_efficient)
type BookingRepository interface {
	GetBySpecialistAndDate(ctx context.Context, specialistID int64, date time.Time) ([]*domain.ExistingBooking, error)
}

// AppointmentRepository интерфейс записи подтвержденных бронирований
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.ExistingBooking, error)

	// MarkRescheduled помечает активное бронирование перенесенным
	MarkRescheduled(ctx context.Context, id int64) error
}

// TransactionManager интерфейс менеджера транзакций
type TransactionManager interface {
	// DoSerializable выполняет функцию в транзакции с уровнем SERIALIZABLE
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics бизнес-метрики планировщика. Реализуется pkg/metrics;
// при выключенных метриках подставляется no-op
type Metrics interface {
	IncSchedulingRequest(operation, outcome string)
	IncCommitRetry()
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
