package reschedule_appointment

import (
	"time"

	"github.com/QueueM/QueueMe-SchedulingService/internal/domain"
	scheduler "github.com/QueueM/QueueMe-SchedulingService/internal/usecase/schedule_appointment"
)

// Request запрос на перенос бронирования
type Request struct {
	AppointmentID int64
	Date          time.Time
	Strategy      scheduler.Strategy

	// Specialist позволяет выбрать другого специалиста; по умолчанию
	// любой подходящий
	Specialist domain.SpecialistSelector

	// PreferredWindow предпочитаемое окно клиента для minimize_wait
	PreferredWindow *domain.TimeRange
}

// Response результат переноса: тот же разбор State/Reason, что и у записи,
// плюс идентификатор замененного бронирования
type Response struct {
	RequestID string
	State     scheduler.State
	Reason    scheduler.RejectionReason

	PreviousAppointmentID int64
	Appointment           *domain.ExistingBooking
}
