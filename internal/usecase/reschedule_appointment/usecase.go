package reschedule_appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/QueueM/QueueMe-SchedulingService/internal/domain"
	apptstorage "github.com/QueueM/QueueMe-SchedulingService/internal/infra/storage/appointment"
	scheduler "github.com/QueueM/QueueMe-SchedulingService/internal/usecase/schedule_appointment"
)

// UseCase use case переноса бронирования на другое время
type UseCase struct {
	scheduler   Scheduler
	apptRepo    AppointmentRepository
	invalidator AvailabilityInvalidator
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	schedulerUC Scheduler,
	apptRepo AppointmentRepository,
	invalidator AvailabilityInvalidator,
	logger Logger,
) *UseCase {
	return &UseCase{
		scheduler:   schedulerUC,
		apptRepo:    apptRepo,
		invalidator: invalidator,
		logger:      logger,
	}
}

// Execute выполняет перенос: свежий цикл подбора на новую дату, в котором
// старое бронирование продолжает занимать время до самого коммита, затем
// атомарный обмен старого на новое
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleAppointment: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("RescheduleAppointment: appointment=%d, new date=%s",
		req.AppointmentID, req.Date.Format(domain.DateFormat))

	// 2. Старое бронирование должно существовать и быть активным
	old, err := uc.apptRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, apptstorage.ErrBookingNotFound) {
			uc.logger.Warn("RescheduleAppointment: appointment id=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("RescheduleAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
		return &Response{
			RequestID: uuid.New().String(),
			State:     scheduler.StateRejected,
			Reason:    scheduler.ReasonTemporaryFailure,
		}, nil
	}

	if !old.IsActive() {
		uc.logger.Warn("RescheduleAppointment: appointment id=%d has status %s", old.ID, old.Status)
		return nil, ErrNotReschedulable
	}

	// 3. Свежий цикл подбора с атомарным обменом
	schedResp, err := uc.scheduler.Execute(ctx, &scheduler.Request{
		ShopID:               old.ShopID,
		CustomerID:           old.CustomerID,
		ServiceIDs:           []int64{old.ServiceID},
		Date:                 req.Date,
		Strategy:             req.Strategy,
		Specialist:           req.Specialist,
		ResourceID:           old.ResourceID,
		PreferredWindow:      req.PreferredWindow,
		ReplaceAppointmentID: &old.ID,
	})
	if err != nil {
		if errors.Is(err, scheduler.ErrReplaceTargetGone) {
			return nil, ErrNotReschedulable
		}
		return nil, err
	}

	resp := &Response{
		RequestID:             schedResp.RequestID,
		State:                 schedResp.State,
		Reason:                schedResp.Reason,
		PreviousAppointmentID: old.ID,
	}

	if schedResp.State == scheduler.StateCommitted {
		resp.Appointment = schedResp.Appointments[0]

		// освободившееся время старого бронирования
		uc.invalidator.InvalidateCache(old.ShopID, old.SpecialistID, old.Slot.Start)

		uc.logger.Info("RescheduleAppointment: appointment id=%d replaced by id=%d, slot=%s",
			old.ID, resp.Appointment.ID, resp.Appointment.Slot.Start.Format(domain.TimeFormat))
	} else {
		uc.logger.Info("RescheduleAppointment: appointment id=%d not moved: %s", old.ID, schedResp.Reason)
	}

	return resp, nil
}
