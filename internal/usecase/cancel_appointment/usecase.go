package cancel_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/QueueM/QueueMe-SchedulingService/internal/domain"
	apptstorage "github.com/QueueM/QueueMe-SchedulingService/internal/infra/storage/appointment"
)

// UseCase use case отмены бронирования
type UseCase struct {
	apptRepo    AppointmentRepository
	invalidator AvailabilityInvalidator
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	apptRepo AppointmentRepository,
	invalidator AvailabilityInvalidator,
	logger Logger,
) *UseCase {
	return &UseCase{
		apptRepo:    apptRepo,
		invalidator: invalidator,
		logger:      logger,
	}
}

// Execute отменяет бронирование клиента и сбрасывает кэш доступности,
// чтобы освободившийся слот сразу стал виден при поиске
func (uc *UseCase) Execute(ctx context.Context, req *Request) error {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelAppointment: validation failed: %v", err)
		return err
	}

	uc.logger.Info("CancelAppointment: appointment=%d, customer=%d", req.AppointmentID, req.CustomerID)

	// 2. Бронирование должно существовать
	booking, err := uc.apptRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, apptstorage.ErrBookingNotFound) {
			uc.logger.Warn("CancelAppointment: appointment id=%d not found", req.AppointmentID)
			return ErrAppointmentNotFound
		}
		uc.logger.Error("CancelAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
		return fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}

	// 3. Отменить можно только свое бронирование
	if booking.CustomerID != req.CustomerID {
		uc.logger.Warn("CancelAppointment: access denied: appointment id=%d, customer=%d",
			req.AppointmentID, req.CustomerID)
		return ErrAccessDenied
	}

	// 4. Визит не должен быть начат, завершен или уже отменен
	if !booking.CanBeCancelled() {
		uc.logger.Warn("CancelAppointment: appointment id=%d cannot be cancelled, status=%s",
			booking.ID, booking.Status)
		return ErrCannotCancel
	}

	// 5. Помечаем отмененным
	// Гонка со сменой статуса проявляется как ErrBookingNotFound:
	// условие по активным статусам не нашло строку
	if err := uc.apptRepo.MarkCancelled(ctx, booking.ID, domain.StatusCancelledByUser, req.Reason); err != nil {
		if errors.Is(err, apptstorage.ErrBookingNotFound) {
			uc.logger.Warn("CancelAppointment: appointment id=%d changed status during cancellation", booking.ID)
			return ErrCannotCancel
		}
		uc.logger.Error("CancelAppointment: failed to cancel appointment id=%d: %v", booking.ID, err)
		return fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}

	// 6. Освободившееся время должно попасть в выдачу доступности
	uc.invalidator.InvalidateCache(booking.ShopID, booking.SpecialistID, booking.Slot.Start)

	uc.logger.Info("CancelAppointment: appointment id=%d cancelled", booking.ID)
	return nil
}
