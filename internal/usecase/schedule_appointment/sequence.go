package schedule_appointment

import (
	"context"
	"errors"
	"time"

	"github.com/QueueM/QueueMe-SchedulingService/internal/domain"
	apptstorage "github.com/QueueM/QueueMe-SchedulingService/internal/infra/storage/appointment"
	"github.com/QueueM/QueueMe-SchedulingService/internal/service/buffer"
	"github.com/QueueM/QueueMe-SchedulingService/internal/service/conflict"
	availability "github.com/QueueM/QueueMe-SchedulingService/internal/usecase/compute_availability"
)

// chain последовательность слотов одного специалиста, покрывающая все
// услуги запроса подряд
type chain struct {
	specialistID int64
	slots        []domain.TimeRange
}

type chainKey struct {
	specialistID int64
	firstStart   int64
}

// scheduleSequence пытается записать несколько услуг подряд к одному
// специалисту; если ни один специалист не может принять всю
// последовательность, размещает услуги независимо
func (uc *UseCase) scheduleSequence(ctx context.Context, requestID string, req *Request, avails []*availability.Response) (*Response, error) {
	chains := buildChains(avails)
	if len(chains) > 0 {
		resp, err := uc.commitChains(ctx, requestID, req, avails, chains)
		if resp != nil || err != nil {
			return resp, err
		}
	} else {
		uc.logger.Info("ScheduleAppointment[%s]: no specialist can take the full sequence, falling back to independent placement", requestID)
	}

	return uc.scheduleIndependent(ctx, requestID, req, avails)
}

// buildChains перебирает специалистов, доступных для всех услуг, и для
// каждого стартового слота первой услуги строит цепочку: услуга N+1
// начинается не раньше буферизованного конца услуги N
func buildChains(avails []*availability.Response) []chain {
	bySpecialist := make([]map[int64][]domain.TimeRange, len(avails))
	for i, avail := range avails {
		m := make(map[int64][]domain.TimeRange)
		for _, c := range avail.Candidates {
			m[c.SpecialistID] = append(m[c.SpecialistID], c.Slot)
		}
		bySpecialist[i] = m
	}

	var chains []chain
	for specialistID, firstSlots := range bySpecialist[0] {
		for _, first := range firstSlots {
			slots := make([]domain.TimeRange, 1, len(avails))
			slots[0] = first

			cur, curSpec := first, avails[0].Spec
			complete := true
			for i := 1; i < len(avails); i++ {
				nextSpec := avails[i].Spec

				next, found := nextAfterBuffers(bySpecialist[i][specialistID], cur, curSpec, nextSpec)
				if !found {
					complete = false
					break
				}

				slots = append(slots, next)
				cur, curSpec = next, nextSpec
			}

			if complete {
				chains = append(chains, chain{specialistID: specialistID, slots: slots})
			}
		}
	}

	return chains
}

// earliestFrom возвращает первый слот, начинающийся не раньше minStart.
// Слоты приходят отсортированными по времени начала.
func earliestFrom(slots []domain.TimeRange, minStart time.Time) (domain.TimeRange, bool) {
	for _, s := range slots {
		if !s.Start.Before(minStart) {
			return s, true
		}
	}
	return domain.TimeRange{}, false
}

// nextAfterBuffers возвращает первый слот следующей услуги, не конфликтующий
// по буферам с предыдущей. Каждая итерация сдвигает нижнюю границу минимум
// на величину пересечения буферов, так что цикл конечен.
func nextAfterBuffers(slots []domain.TimeRange, cur domain.TimeRange, curSpec, nextSpec *domain.ServiceSpec) (domain.TimeRange, bool) {
	next, found := earliestFrom(slots, cur.End)
	for found {
		res := buffer.ResolveBufferConflict(cur, next, curSpec, nextSpec)
		if res.OK {
			return next, true
		}
		next, found = earliestFrom(slots, next.Start.Add(time.Duration(res.ShiftRequiredMinutes)*time.Minute))
	}
	return domain.TimeRange{}, false
}

// commitChains ранжирует цепочки по первому слоту выбранной стратегией и
// пытается закоммитить лучшие с ограниченным числом повторов.
// Возвращает (nil, nil), когда все попытки конфликтовали и имеет смысл
// независимое размещение.
func (uc *UseCase) commitChains(ctx context.Context, requestID string, req *Request, avails []*availability.Response, chains []chain) (*Response, error) {
	index := make(map[chainKey]chain, len(chains))
	cands := make([]domain.Candidate, 0, len(chains))
	for _, ch := range chains {
		key := chainKey{specialistID: ch.specialistID, firstStart: ch.slots[0].Start.UnixNano()}
		index[key] = ch
		cands = append(cands, domain.Candidate{SpecialistID: ch.specialistID, Slot: ch.slots[0]})
	}

	attempts, err := uc.orderAttempts(ctx, req, avails[0].Spec, cands, avails[0].Profiles)
	if err != nil {
		return uc.mapSelectionError(requestID, err)
	}
	if len(attempts) == 0 {
		return nil, nil
	}

	for i, cand := range attempts {
		if i >= uc.maxCommitRetries {
			break
		}

		ch := index[chainKey{specialistID: cand.SpecialistID, firstStart: cand.Slot.Start.UnixNano()}]

		result, bookings, err := uc.tryCommitChain(ctx, req, avails, ch)
		if err != nil {
			return uc.mapCommitError(requestID, err)
		}
		if result.HasConflict() {
			uc.metrics.IncCommitRetry()
			uc.logger.Warn("ScheduleAppointment[%s]: chain attempt %d conflicted (kind=%s, specialist=%d), retrying",
				requestID, i+1, result.Kind, ch.specialistID)
			continue
		}

		uc.availability.InvalidateCache(req.ShopID, ch.specialistID, req.Date)
		uc.logger.Info("ScheduleAppointment[%s]: committed %d sequenced bookings with specialist=%d",
			requestID, len(bookings), ch.specialistID)
		return committed(requestID, true, bookings), nil
	}

	uc.logger.Warn("ScheduleAppointment[%s]: all chains conflicted after %d attempts", requestID, uc.maxCommitRetries)
	return nil, nil
}

// tryCommitChain проверяет и создает все бронирования цепочки в одной
// сериализуемой транзакции: либо вся последовательность, либо ничего
func (uc *UseCase) tryCommitChain(ctx context.Context, req *Request, avails []*availability.Response, ch chain) (conflict.Result, []*domain.ExistingBooking, error) {
	var created []*domain.ExistingBooking
	var result conflict.Result

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		created = created[:0]

		for i, slot := range ch.slots {
			spec := avails[i].Spec

			res, err := uc.conflicts.Check(txCtx, ch.specialistID, slot, spec, req.ResourceID)
			if err != nil {
				return err
			}
			if res.HasConflict() {
				result = res
				return errAttemptConflict
			}

			booking, err := uc.apptRepo.Create(txCtx, &domain.Appointment{
				ShopID:        req.ShopID,
				ServiceID:     spec.ID,
				SpecialistID:  ch.specialistID,
				CustomerID:    req.CustomerID,
				ResourceID:    req.ResourceID,
				Slot:          slot,
				BufferedRange: buffer.EffectiveRange(slot, spec),
				Status:        domain.StatusConfirmed,
			})
			if err != nil {
				return err
			}
			created = append(created, booking)
		}

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

// scheduleIndependent размещает каждую услугу независимо, возможно у разных
// специалистов, но атомарно: либо все услуги, либо отказ целиком.
// Нарушение уникальности на Create прерывает транзакцию Postgres целиком,
// поэтому повтор идет в новой транзакции, а не по следующему кандидату
// внутри прерванной
func (uc *UseCase) scheduleIndependent(ctx context.Context, requestID string, req *Request, avails []*availability.Response) (*Response, error) {
	for attempt := 1; ; attempt++ {
		resp, err := uc.tryIndependent(ctx, requestID, req, avails)
		if err == nil {
			return resp, nil
		}
		if !errors.Is(err, apptstorage.ErrSlotTaken) {
			return uc.mapCommitError(requestID, err)
		}

		uc.metrics.IncCommitRetry()
		if attempt >= uc.maxCommitRetries {
			uc.logger.Warn("ScheduleAppointment[%s]: independent placement exhausted %d attempts on uniqueness violations",
				requestID, uc.maxCommitRetries)
			return rejected(requestID, ReasonAllCandidatesConflicted), nil
		}
		uc.logger.Warn("ScheduleAppointment[%s]: independent placement attempt %d hit a uniqueness violation, retrying in a fresh transaction",
			requestID, attempt)
	}
}

// tryIndependent одна попытка независимого размещения в одной сериализуемой
// транзакции. ErrSlotTaken уходит наружу: внутри прерванной транзакции
// продолжать нельзя. Конфликт из предварительной проверки - значение,
// следующий кандидат пробуется в той же транзакции
func (uc *UseCase) tryIndependent(ctx context.Context, requestID string, req *Request, avails []*availability.Response) (*Response, error) {
	var all []*domain.ExistingBooking
	reason := ReasonAllCandidatesConflicted

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		all = all[:0]

		for _, avail := range avails {
			attempts, err := uc.orderAttempts(txCtx, req, avail.Spec, avail.Candidates, avail.Profiles)
			if err != nil {
				return err
			}
			if len(attempts) == 0 {
				reason = ReasonNoAvailability
				return errAttemptConflict
			}

			placed := false
			for j, cand := range attempts {
				if j >= uc.maxCommitRetries {
					break
				}

				res, err := uc.conflicts.Check(txCtx, cand.SpecialistID, cand.Slot, avail.Spec, req.ResourceID)
				if err != nil {
					return err
				}
				if res.HasConflict() {
					continue
				}

				booking, err := uc.apptRepo.Create(txCtx, &domain.Appointment{
					ShopID:        req.ShopID,
					ServiceID:     avail.Spec.ID,
					SpecialistID:  cand.SpecialistID,
					CustomerID:    req.CustomerID,
					ResourceID:    req.ResourceID,
					Slot:          cand.Slot,
					BufferedRange: buffer.EffectiveRange(cand.Slot, avail.Spec),
					Status:        domain.StatusConfirmed,
				})
				if err != nil {
					return err
				}

				all = append(all, booking)
				placed = true
				break
			}

			if !placed {
				reason = ReasonAllCandidatesConflicted
				return errAttemptConflict
			}
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, errAttemptConflict) {
			uc.logger.Warn("ScheduleAppointment[%s]: independent placement rejected: %s", requestID, reason)
			return rejected(requestID, reason), nil
		}
		return nil, err
	}

	for _, booking := range all {
		uc.availability.InvalidateCache(req.ShopID, booking.SpecialistID, req.Date)
	}

	uc.logger.Info("ScheduleAppointment[%s]: committed %d independent bookings", requestID, len(all))
	return committed(requestID, false, all), nil
}
