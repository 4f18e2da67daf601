package schedule_appointment

import (
	"time"

	"github.com/QueueM/QueueMe-SchedulingService/internal/domain"
)

// Request запрос на запись к специалисту
// ServiceIDs содержит одну услугу либо последовательность услуг,
// которые клиент хочет получить подряд за один визит
type Request struct {
	ShopID     int64
	CustomerID int64
	ServiceIDs []int64
	Date       time.Time
	Strategy   Strategy

	// Specialist явный выбор: любой подходящий или конкретный специалист
	Specialist domain.SpecialistSelector

	// ResourceID кабинет или оборудование, если услуга его требует
	ResourceID *int64

	// PreferredWindow предпочитаемое окно клиента для minimize_wait
	PreferredWindow *domain.TimeRange

	// ReplaceAppointmentID старое бронирование при переносе: помечается
	// перенесенным в той же транзакции, что и создание нового (атомарный
	// обмен). До коммита старое бронирование продолжает занимать время.
	ReplaceAppointmentID *int64
}

// Response результат запроса на запись
// Конфликты и отклонения - значения, а не ошибки: вызывающая сторона
// разбирает State и Reason
type Response struct {
	RequestID string
	State     State
	Reason    RejectionReason

	// Sequenced true, когда все услуги запроса записаны подряд
	// к одному специалисту
	Sequenced bool

	Appointments []*domain.ExistingBooking
}

// rejected собирает отклоненный ответ
func rejected(requestID string, reason RejectionReason) *Response {
	return &Response{
		RequestID:    requestID,
		State:        StateRejected,
		Reason:       reason,
		Appointments: []*domain.ExistingBooking{},
	}
}

// committed собирает успешный ответ
func committed(requestID string, sequenced bool, appointments []*domain.ExistingBooking) *Response {
	return &Response{
		RequestID:    requestID,
		State:        StateCommitted,
		Sequenced:    sequenced,
		Appointments: appointments,
	}
}
