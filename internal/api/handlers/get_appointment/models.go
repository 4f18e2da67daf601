package get_appointment

import (
	"time"

	"github.com/QueueM/QueueMe-SchedulingService/internal/domain"
)

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID                 int64   `json:"id"`
	ShopID             int64   `json:"shopId"`
	SpecialistID       int64   `json:"specialistId"`
	CustomerID         int64   `json:"customerId"`
	ServiceID          int64   `json:"serviceId"`
	ResourceID         *int64  `json:"resourceId,omitempty"`
	Date               string  `json:"date"`
	StartTime          string  `json:"startTime"`
	EndTime            string  `json:"endTime"`
	Status             string  `json:"status"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CreatedAt          string  `json:"createdAt"`
	UpdatedAt          string  `json:"updatedAt"`
}

// FromDomain конвертирует доменную модель в HTTP response
func FromDomain(b *domain.ExistingBooking) *AppointmentResponse {
	return &AppointmentResponse{
		ID:                 b.ID,
		ShopID:             b.ShopID,
		SpecialistID:       b.SpecialistID,
		CustomerID:         b.CustomerID,
		ServiceID:          b.ServiceID,
		ResourceID:         b.ResourceID,
		Date:               b.Slot.Start.Format(domain.DateFormat),
		StartTime:          b.Slot.Start.Format(domain.TimeFormat),
		EndTime:            b.Slot.End.Format(domain.TimeFormat),
		Status:             string(b.Status),
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          b.UpdatedAt.Format(time.RFC3339),
	}
}
