package conflict

import (
	"context"
	"fmt"
	"time"

	"github.com/QueueM/QueueMe-SchedulingService/internal/domain"
	"github.com/QueueM/QueueMe-SchedulingService/internal/service/buffer"
)

// Service сервис проверки конфликтов предлагаемого бронирования
// Проверки выполняются в фиксированном порядке с коротким замыканием:
// специалист -> ресурс -> вместимость
type Service struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса проверки конфликтов
func NewService(bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// Check проверяет предлагаемый слот на конфликты
// Проверка выполняется по расширенным буферами диапазонам: буферы занимают
// календарь специалиста, хотя и не видны клиенту
//
// Проверка обязана повторно выполняться непосредственно перед коммитом,
// а не только при поиске слотов - это закрывает окно гонки между расчётом
// доступности и созданием бронирования
func (s *Service) Check(
	ctx context.Context,
	specialistID int64,
	proposedSlot domain.TimeRange,
	svc *domain.ServiceSpec,
	resourceID *int64,
) (Result, error) {
	if specialistID <= 0 {
		return Result{}, fmt.Errorf("%w: specialistID must be positive", ErrInvalidInput)
	}
	if err := svc.Validate(); err != nil {
		return Result{}, err
	}

	date := dayOf(proposedSlot.Start)
	proposedEffective := buffer.EffectiveRange(proposedSlot, svc)

	// 1. Конфликт по специалисту: пересечение расширенного слота с
	// эффективными диапазонами существующих бронирований
	bookings, err := s.bookingRepo.GetBySpecialistAndDate(ctx, specialistID, date)
	if err != nil {
		s.logger.Error("Check: failed to get bookings for specialist id=%d: %v", specialistID, err)
		return Result{}, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		// Бронирования той же групповой услуги проверяются ниже правилом
		// вместимости, а не как конфликт специалиста
		if svc.IsGroupService() && b.ServiceID == svc.ID {
			continue
		}
		if proposedEffective.Overlaps(b.EffectiveRange()) {
			s.logger.Info("Check: specialist id=%d conflict with booking id=%d", specialistID, b.ID)
			return SpecialistConflict(b.ID), nil
		}
	}

	// 2. Конфликт по ресурсу: та же проверка по бронированиям ресурса
	// среди ВСЕХ специалистов
	if resourceID != nil {
		resourceBookings, err := s.bookingRepo.GetByResourceAndDate(ctx, *resourceID, date)
		if err != nil {
			s.logger.Error("Check: failed to get bookings for resource id=%d: %v", *resourceID, err)
			return Result{}, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
		}

		for _, b := range resourceBookings {
			if !b.IsActive() || b.SpecialistID == specialistID {
				// собственные бронирования специалиста уже проверены правилом 1
				continue
			}
			if proposedEffective.Overlaps(b.EffectiveRange()) {
				s.logger.Info("Check: resource id=%d conflict with booking id=%d", *resourceID, b.ID)
				return ResourceConflict(*resourceID), nil
			}
		}
	}

	// 3. Вместимость групповой услуги: количество одновременных бронирований
	// этой услуги, пересекающихся с предлагаемым слотом (по сырому слоту,
	// буферы у группового занятия общие)
	if svc.IsGroupService() {
		current := 0
		for _, b := range bookings {
			if !b.IsActive() || b.ServiceID != svc.ID {
				continue
			}
			if proposedSlot.Overlaps(b.Slot) {
				current++
			}
		}

		if current >= svc.EffectiveCapacity() {
			s.logger.Info("Check: capacity exceeded for service id=%d: %d/%d",
				svc.ID, current, svc.EffectiveCapacity())
			return CapacityExceeded(current, svc.EffectiveCapacity()), nil
		}
	}

	return NoConflict(), nil
}

// dayOf обнуляет время, оставляя только дату
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
