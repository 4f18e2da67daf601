package schedule_appointment

import (
	"time"

	"github.com/QueueM/QueueMe-SchedulingService/internal/domain"
	scheduleAppointment "github.com/QueueM/QueueMe-SchedulingService/internal/usecase/schedule_appointment"
)

// ScheduleAppointmentRequest HTTP request model
type ScheduleAppointmentRequest struct {
	ShopID         int64   `json:"shopId"`
	CustomerID     int64   `json:"customerId"`
	ServiceIDs     []int64 `json:"serviceIds"`
	Date           string  `json:"date"`     // "2026-03-10"
	Strategy       string  `json:"strategy"` // earliest_available | balanced_workload | minimize_wait | resource_efficient
	SpecialistID   *int64  `json:"specialistId,omitempty"`
	ResourceID     *int64  `json:"resourceId,omitempty"`
	PreferredStart *string `json:"preferredStart,omitempty"` // "10:00"
	PreferredEnd   *string `json:"preferredEnd,omitempty"`   // "14:00"
}

// AppointmentResponse HTTP model одного созданного бронирования
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

// ScheduleAppointmentResponse HTTP response model
type ScheduleAppointmentResponse struct {
	RequestID    string                 `json:"requestId"`
	Status       string                 `json:"status"`
	Reason       string                 `json:"reason,omitempty"`
	Sequenced    bool                   `json:"sequenced"`
	Appointments []*AppointmentResponse `json:"appointments"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// (с парсингом даты, стратегии и предпочитаемого окна)
func (r *ScheduleAppointmentRequest) ToUseCaseRequest() (*scheduleAppointment.Request, error) {
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

	return &scheduleAppointment.Request{
		ShopID:          r.ShopID,
		CustomerID:      r.CustomerID,
		ServiceIDs:      r.ServiceIDs,
		Date:            date,
		Strategy:        strategy,
		Specialist:      selector,
		ResourceID:      r.ResourceID,
		PreferredWindow: window,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *scheduleAppointment.Response) *ScheduleAppointmentResponse {
	appointments := make([]*AppointmentResponse, 0, len(resp.Appointments))
	for _, appt := range resp.Appointments {
		appointments = append(appointments, fromBooking(appt))
	}

	return &ScheduleAppointmentResponse{
		RequestID:    resp.RequestID,
		Status:       string(resp.State),
		Reason:       string(resp.Reason),
		Sequenced:    resp.Sequenced,
		Appointments: appointments,
	}
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
