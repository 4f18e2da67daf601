package schedule_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/QueueM/QueueMe-SchedulingService/internal/domain"
	apptstorage "github.com/QueueM/QueueMe-SchedulingService/internal/infra/storage/appointment"
	"github.com/QueueM/QueueMe-SchedulingService/internal/service/allocation"
	"github.com/QueueM/QueueMe-SchedulingService/internal/service/buffer"
	"github.com/QueueM/QueueMe-SchedulingService/internal/service/conflict"
	availability "github.com/QueueM/QueueMe-SchedulingService/internal/usecase/compute_availability"
)

// UseCase use case записи к специалисту: оркестрирует расчет доступности,
// выбор специалиста, проверку конфликтов и коммит
type UseCase struct {
	availability     AvailabilityService
	conflicts        ConflictService
	allocator        AllocationService
	bookingRepo      BookingRepository
	apptRepo         AppointmentRepository
	txManager        TransactionManager
	timeProvider     TimeProvider
	metrics          Metrics
	logger           Logger
	maxCommitRetries int
}

// NewUseCase создает новый экземпляр use case
// metrics может быть nil, если сбор метрик выключен
func NewUseCase(
	availabilitySvc AvailabilityService,
	conflicts ConflictService,
	allocator AllocationService,
	bookingRepo BookingRepository,
	apptRepo AppointmentRepository,
	txManager TransactionManager,
	maxCommitRetries int,
	metricsCollector Metrics,
	logger Logger,
) *UseCase {
	if maxCommitRetries <= 0 {
		maxCommitRetries = domain.DefaultMaxCommitRetries
	}
	if metricsCollector == nil {
		metricsCollector = nopMetrics{}
	}

	return &UseCase{
		availability:     availabilitySvc,
		conflicts:        conflicts,
		allocator:        allocator,
		bookingRepo:      bookingRepo,
		apptRepo:         apptRepo,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		metrics:          metricsCollector,
		logger:           logger,
		maxCommitRetries: maxCommitRetries,
	}
}

const metricOperation = "schedule_appointment"

type nopMetrics struct{}

func (nopMetrics) IncSchedulingRequest(string, string) {}
func (nopMetrics) IncCommitRetry()                     {}

// Execute выполняет запрос на запись
// Конфликтные исходы возвращаются значением в Response, ошибки канала error
// остаются за некорректным вводом и внутренними сбоями
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	resp, err := uc.execute(ctx, req)

	switch {
	case err != nil:
		uc.metrics.IncSchedulingRequest(metricOperation, "error")
	case resp.State == StateCommitted:
		uc.metrics.IncSchedulingRequest(metricOperation, string(StateCommitted))
	default:
		uc.metrics.IncSchedulingRequest(metricOperation, string(resp.Reason))
	}

	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	requestID := uuid.New().String()

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ScheduleAppointment[%s]: validation failed: %v", requestID, err)
		return nil, err
	}

	uc.logger.Info("ScheduleAppointment[%s]: shop=%d, customer=%d, services=%v, strategy=%q, date=%s, pinned=%v",
		requestID, req.ShopID, req.CustomerID, req.ServiceIDs, req.Strategy,
		req.Date.Format(domain.DateFormat), req.Specialist.Pinned)

	// 2. Requested -> SlotsComputed: доступность по каждой услуге
	avails := make([]*availability.Response, len(req.ServiceIDs))
	for i, serviceID := range req.ServiceIDs {
		avail, rejResp, err := uc.fetchAvailability(ctx, requestID, req, serviceID)
		if err != nil || rejResp != nil {
			return rejResp, err
		}
		avails[i] = avail
	}

	// 3. Одна услуга или последовательность
	if len(avails) == 1 {
		return uc.scheduleSingle(ctx, requestID, req, avails[0])
	}
	return uc.scheduleSequence(ctx, requestID, req, avails)
}

// fetchAvailability рассчитывает доступность одной услуги и отображает
// исходы: пустая доступность и недоступность данных - значения,
// остальное - ошибки
func (uc *UseCase) fetchAvailability(ctx context.Context, requestID string, req *Request, serviceID int64) (*availability.Response, *Response, error) {
	avail, err := uc.availability.Execute(ctx, &availability.Request{
		ShopID:     req.ShopID,
		ServiceID:  serviceID,
		Date:       req.Date,
		Specialist: req.Specialist,
	})
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrDataUnavailable):
			uc.logger.Warn("ScheduleAppointment[%s]: availability data unavailable: %v", requestID, err)
			return nil, rejected(requestID, ReasonTemporaryFailure), nil
		case errors.Is(err, availability.ErrShopNotFound):
			return nil, nil, ErrShopNotFound
		case errors.Is(err, availability.ErrServiceNotFound):
			return nil, nil, ErrServiceNotFound
		case errors.Is(err, availability.ErrSpecialistNotFound):
			return nil, nil, ErrSpecialistNotFound
		case errors.Is(err, availability.ErrSpecialistNotQualified):
			return nil, nil, ErrSpecialistNotQualified
		case errors.Is(err, availability.ErrNoOperatingHours):
			return nil, nil, ErrNoOperatingHours
		case errors.Is(err, availability.ErrInvalidInput):
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		default:
			uc.logger.Error("ScheduleAppointment[%s]: availability failed for service id=%d: %v", requestID, serviceID, err)
			return nil, nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}

	if len(avail.Candidates) == 0 {
		if req.Specialist.Pinned && !avail.ShopClosed {
			uc.logger.Info("ScheduleAppointment[%s]: pinned specialist id=%d has no slots for service id=%d",
				requestID, req.Specialist.SpecialistID, serviceID)
			return nil, rejected(requestID, ReasonSpecialistUnavailable), nil
		}
		uc.logger.Info("ScheduleAppointment[%s]: no availability for service id=%d on %s",
			requestID, serviceID, req.Date.Format(domain.DateFormat))
		return nil, rejected(requestID, ReasonNoAvailability), nil
	}

	return avail, nil, nil
}

// scheduleSingle проводит одну услугу через
// SpecialistSelected -> ConflictChecked -> Committed с ограниченными повторами
func (uc *UseCase) scheduleSingle(ctx context.Context, requestID string, req *Request, avail *availability.Response) (*Response, error) {
	attempts, err := uc.orderAttempts(ctx, req, avail.Spec, avail.Candidates, avail.Profiles)
	if err != nil {
		return uc.mapSelectionError(requestID, err)
	}
	if len(attempts) == 0 {
		uc.logger.Info("ScheduleAppointment[%s]: no schedulable candidates remain", requestID)
		return rejected(requestID, ReasonNoAvailability), nil
	}

	for i, cand := range attempts {
		if i >= uc.maxCommitRetries {
			break
		}

		result, booking, err := uc.tryCommit(ctx, req, avail.Spec, cand)
		if err != nil {
			return uc.mapCommitError(requestID, err)
		}
		if result.HasConflict() {
			uc.metrics.IncCommitRetry()
			uc.logger.Warn("ScheduleAppointment[%s]: attempt %d conflicted (kind=%s, specialist=%d, slot=%s), retrying",
				requestID, i+1, result.Kind, cand.SpecialistID, cand.Slot.Start.Format(domain.TimeFormat))
			continue
		}

		uc.availability.InvalidateCache(req.ShopID, cand.SpecialistID, req.Date)
		uc.logger.Info("ScheduleAppointment[%s]: committed booking id=%d, specialist=%d, slot=%s",
			requestID, booking.ID, cand.SpecialistID, cand.Slot.Start.Format(domain.TimeFormat))
		return committed(requestID, true, []*domain.ExistingBooking{booking}), nil
	}

	uc.logger.Warn("ScheduleAppointment[%s]: all candidates conflicted after %d attempts", requestID, uc.maxCommitRetries)
	return rejected(requestID, ReasonAllCandidatesConflicted), nil
}

// tryCommit повторно проверяет конфликты и создает бронирование в одной
// сериализуемой транзакции, закрывая гонку между расчетом доступности
// и коммитом. Нарушение уникальности на коммите трактуется как конфликт
// специалиста, а не как ошибка хранилища
func (uc *UseCase) tryCommit(ctx context.Context, req *Request, spec *domain.ServiceSpec, cand domain.Candidate) (conflict.Result, *domain.ExistingBooking, error) {
	var created *domain.ExistingBooking
	var result conflict.Result

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		res, err := uc.conflicts.Check(txCtx, cand.SpecialistID, cand.Slot, spec, req.ResourceID)
		if err != nil {
			return err
		}
		if res.HasConflict() {
			result = res
			return errAttemptConflict
		}

		// Перенос: старое бронирование помечается перенесенным в той же
		// транзакции, либо обмен целиком, либо ничего
		if req.ReplaceAppointmentID != nil {
			if err := uc.apptRepo.MarkRescheduled(txCtx, *req.ReplaceAppointmentID); err != nil {
				return err
			}
		}

		booking, err := uc.apptRepo.Create(txCtx, &domain.Appointment{
			ShopID:        req.ShopID,
			ServiceID:     spec.ID,
			SpecialistID:  cand.SpecialistID,
			CustomerID:    req.CustomerID,
			ResourceID:    req.ResourceID,
			Slot:          cand.Slot,
			BufferedRange: buffer.EffectiveRange(cand.Slot, spec),
			Status:        domain.StatusConfirmed,
		})
		if err != nil {
			return err
		}

		created = booking
		return nil
	})
	if err != nil {
		if errors.Is(err, errAttemptConflict) {
			return result, nil, nil
		}
		if errors.Is(err, apptstorage.ErrSlotTaken) {
			return conflict.SpecialistConflict(0), nil, nil
		}
		return conflict.Result{}, nil, err
	}

	return conflict.NoConflict(), created, nil
}

// mapSelectionError отображает ошибки ранжирования: ошибки конфигурации
// весов и профилей внутренние, сбои чтения данных временные
func (uc *UseCase) mapSelectionError(requestID string, err error) (*Response, error) {
	if errors.Is(err, allocation.ErrInvalidWeights) || errors.Is(err, allocation.ErrMissingProfile) {
		uc.logger.Error("ScheduleAppointment[%s]: ranking failed: %v", requestID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if errors.Is(err, ErrUnknownStrategy) {
		return nil, err
	}

	uc.logger.Warn("ScheduleAppointment[%s]: selection data unavailable: %v", requestID, err)
	return rejected(requestID, ReasonTemporaryFailure), nil
}

// mapCommitError отображает ошибки коммита
func (uc *UseCase) mapCommitError(requestID string, err error) (*Response, error) {
	if errors.Is(err, conflict.ErrDataUnavailable) {
		uc.logger.Warn("ScheduleAppointment[%s]: commit data unavailable: %v", requestID, err)
		return rejected(requestID, ReasonTemporaryFailure), nil
	}
	if errors.Is(err, conflict.ErrInvalidInput) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if errors.Is(err, apptstorage.ErrBookingNotFound) {
		// старое бронирование успели отменить или перенести параллельно
		return nil, fmt.Errorf("%w: %v", ErrReplaceTargetGone, err)
	}

	uc.logger.Error("ScheduleAppointment[%s]: commit failed: %v", requestID, err)
	return nil, fmt.Errorf("%w: %v", ErrInternal, err)
}
