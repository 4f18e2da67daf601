package reschedule_appointment

import "fmt"

// validateRequest проверяет корректность запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidInput)
	}

	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointment_id must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.Specialist.Pinned && req.Specialist.SpecialistID <= 0 {
		return fmt.Errorf("%w: specialist_id must be positive", ErrInvalidInput)
	}

	return nil
}
