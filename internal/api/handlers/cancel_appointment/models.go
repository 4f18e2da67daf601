package cancel_appointment

import (
	cancelAppointment "github.com/QueueM/QueueMe-SchedulingService/internal/usecase/cancel_appointment"
)

// CancelAppointmentRequest HTTP request model
type CancelAppointmentRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *CancelAppointmentRequest) ToUseCaseRequest(appointmentID, customerID int64) *cancelAppointment.Request {
	return &cancelAppointment.Request{
		AppointmentID: appointmentID,
		CustomerID:    customerID,
		Reason:        r.CancellationReason,
	}
}
