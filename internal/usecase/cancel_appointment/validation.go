package cancel_appointment

import "fmt"

// validateRequest проверяет корректность запроса на отмену
func validateRequest(req *Request) error {
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointment id must be positive", ErrInvalidInput)
	}
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customer id must be positive", ErrInvalidInput)
	}
	return nil
}
