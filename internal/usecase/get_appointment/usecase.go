package get_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/QueueM/QueueMe-SchedulingService/internal/domain"
	apptstorage "github.com/QueueM/QueueMe-SchedulingService/internal/infra/storage/appointment"
)

// UseCase use case чтения бронирования
type UseCase struct {
	apptRepo AppointmentRepository
	logger   Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(apptRepo AppointmentRepository, logger Logger) *UseCase {
	return &UseCase{
		apptRepo: apptRepo,
		logger:   logger,
	}
}

// Execute возвращает бронирование клиента по ID
// Чужие бронирования не раскрываются, в том числе их существование
func (uc *UseCase) Execute(ctx context.Context, appointmentID, customerID int64) (*domain.ExistingBooking, error) {
	if appointmentID <= 0 {
		return nil, fmt.Errorf("%w: appointment id must be positive", ErrInvalidInput)
	}
	if customerID <= 0 {
		return nil, fmt.Errorf("%w: customer id must be positive", ErrInvalidInput)
	}

	booking, err := uc.apptRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, apptstorage.ErrBookingNotFound) {
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("GetAppointment: failed to get appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}

	if booking.CustomerID != customerID {
		uc.logger.Warn("GetAppointment: access denied: appointment id=%d, customer=%d", appointmentID, customerID)
		return nil, ErrAccessDenied
	}

	return booking, nil
}
