package reschedule_appointment

import (
	"time"

	"github.com/QueueM/QueueMe-SchedulingService/internal/domain"
	rescheduleAppointment "github.com/QueueM/QueueMe-SchedulingService/internal/usecase/reschedule_appointment"
	scheduleAppointment "github.com/QueueM/QueueMe-SchedulingService/internal/usecase/schedule_appointment"
)

// RescheduleAppointmentRequest HTTP request model
type RescheduleAppointmentRequest struct {
	Date           string  `json:"date"`     // "2026-03-10"
	Strategy       string  `json:"strategy"` // earliest_available | balanced_workload | minimize_wait | resource_efficient
	SpecialistID   *int64  `json:"specialistId,omitempty"`
	PreferredStart *string `json:"preferredStart,omitempty"` // "10:00"
	PreferredEnd   *string `json:"preferredEnd,omitempty"`   // "14:00"
}

// AppointmentResponse HTTP model нового бронирования
type AppointmentResponse struct {
	ID           int64  `json:"id"`
	ShopID       int64  `json:"shopId"`
	SpecialistID int64  `json:"specialistId"`
	CustomerID   int64  `json:"customerId"`
	ServiceID    int64  `json:"serviceId"`
	ResourceID   *int64 `json:"resourceId,omitempty"`
	Date         string `json:"date"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	Status       string `json:"status"`
}

// RescheduleAppointmentResponse HTTP response model
type RescheduleAppointmentResponse struct {
	RequestID             string               `json:"requestId"`
	Status                string               `json:"status"`
	Reason                string               `json:"reason,omitempty"`
	PreviousAppointmentID int64                `json:"previousAppointmentId"`
	Appointment           *AppointmentResponse `json:"appointment,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleAppointmentRequest) ToUseCaseRequest(appointmentID int64) (*rescheduleAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	strategy, err := scheduleAppointment.ParseStrategy(r.Strategy)
	if err != nil {
		return nil, err
	}

	selector := domain.AnySpecialist()
	if r.SpecialistID != nil {
		selector = domain.PinnedSpecialist(*r.SpecialistID)
	}

	var window *domain.TimeRange
	if r.PreferredStart != nil && r.PreferredEnd != nil {
		start, err := parseClock(date, *r.PreferredStart)
		if err != nil {
			return nil, err
		}
		end, err := parseClock(date, *r.PreferredEnd)
		if err != nil {
			return nil, err
		}
		tr, err := domain.NewTimeRange(start, end)
		if err != nil {
			return nil, err
		}
		window = &tr
	}

	return &rescheduleAppointment.Request{
		AppointmentID:   appointmentID,
		Date:            date,
		Strategy:        strategy,
		Specialist:      selector,
		PreferredWindow: window,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleAppointment.Response) *RescheduleAppointmentResponse {
	out := &RescheduleAppointmentResponse{
		RequestID:             resp.RequestID,
		Status:                string(resp.State),
		Reason:                string(resp.Reason),
		PreviousAppointmentID: resp.PreviousAppointmentID,
	}
	if resp.Appointment != nil {
		out.Appointment = fromBooking(resp.Appointment)
	}
	return out
}

func fromBooking(b *domain.ExistingBooking) *AppointmentResponse {
	return &AppointmentResponse{
		ID:           b.ID,
		ShopID:       b.ShopID,
		SpecialistID: b.SpecialistID,
		CustomerID:   b.CustomerID,
		ServiceID:    b.ServiceID,
		ResourceID:   b.ResourceID,
		Date:         b.Slot.Start.Format(domain.DateFormat),
		StartTime:    b.Slot.Start.Format(domain.TimeFormat),
		EndTime:      b.Slot.End.Format(domain.TimeFormat),
		Status:       string(b.Status),
	}
}

// parseClock совмещает время "HH:MM" с датой запроса
func parseClock(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse(domain.TimeFormat, clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}
