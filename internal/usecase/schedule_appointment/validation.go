package schedule_appointment

import "fmt"

// validateRequest проверяет корректность запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidInput)
	}

	if req.ShopID <= 0 {
		return fmt.Errorf("%w: shop_id must be positive", ErrInvalidInput)
	}

	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customer_id must be positive", ErrInvalidInput)
	}

	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one service_id is required", ErrInvalidInput)
	}
	for _, id := range req.ServiceIDs {
		if id <= 0 {
			return fmt.Errorf("%w: service_id must be positive", ErrInvalidInput)
		}
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if _, err := ParseStrategy(string(req.Strategy)); err != nil {
		return err
	}

	if req.Specialist.Pinned && req.Specialist.SpecialistID <= 0 {
		return fmt.Errorf("%w: specialist_id must be positive", ErrInvalidInput)
	}

	if req.ResourceID != nil && *req.ResourceID <= 0 {
		return fmt.Errorf("%w: resource_id must be positive", ErrInvalidInput)
	}

	if req.ReplaceAppointmentID != nil {
		if *req.ReplaceAppointmentID <= 0 {
			return fmt.Errorf("%w: replace_appointment_id must be positive", ErrInvalidInput)
		}
		if len(req.ServiceIDs) > 1 {
			return fmt.Errorf("%w: rescheduling covers a single service", ErrInvalidInput)
		}
	}

	return nil
}
