package compute_availability

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/QueueM/QueueMe-SchedulingService/internal/domain"
	"github.com/QueueM/QueueMe-SchedulingService/internal/integrations/directoryservice"
	"github.com/QueueM/QueueMe-SchedulingService/internal/service/buffer"
)

// UseCase use case расчета доступных слотов для записи
type UseCase struct {
	bookingRepo        BookingRepository
	directory          DirectoryClient
	timeProvider       TimeProvider
	logger             Logger
	cache              *responseCache
	workloadWindowDays int
	minNotice          time.Duration
}

// NewUseCase создает новый экземпляр use case
// minNoticeMinutes - минимальное время от момента запроса до начала слота;
// ноль допустим и означает отсутствие ограничения
func NewUseCase(
	bookingRepo BookingRepository,
	directory DirectoryClient,
	cacheTTL time.Duration,
	workloadWindowDays int,
	minNoticeMinutes int,
	logger Logger,
) *UseCase {
	if workloadWindowDays <= 0 {
		workloadWindowDays = domain.DefaultWorkloadWindowDays
	}
	if minNoticeMinutes < 0 {
		minNoticeMinutes = domain.DefaultMinBookingNoticeMinutes
	}

	return &UseCase{
		bookingRepo:        bookingRepo,
		directory:          directory,
		timeProvider:       &RealTimeProvider{},
		logger:             logger,
		cache:              newResponseCache(cacheTTL),
		workloadWindowDays: workloadWindowDays,
		minNotice:          time.Duration(minNoticeMinutes) * time.Minute,
	}
}

// InvalidateCache сбрасывает кэш доступности после записи в бронирования.
// Вызывается хуком инвалидации при любой записи по салону/специалисту/дате.
func (uc *UseCase) InvalidateCache(shopID, specialistID int64, date time.Time) {
	uc.cache.invalidate(shopID, specialistID, date.Format(domain.DateFormat))
	uc.logger.Info("ComputeAvailability: cache invalidated for shop=%d, specialist=%d, date=%s",
		shopID, specialistID, date.Format(domain.DateFormat))
}

// Execute выполняет расчет доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ComputeAvailability: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("ComputeAvailability: shop=%d, service=%d, date=%s, pinned=%v",
		req.ShopID, req.ServiceID, req.Date.Format(domain.DateFormat), req.Specialist.Pinned)

	// 2. Проверяем кэш
	now := uc.timeProvider.Now()
	key := cacheKey{
		ShopID:       req.ShopID,
		ServiceID:    req.ServiceID,
		SpecialistID: req.Specialist.SpecialistID,
		Date:         req.Date.Format(domain.DateFormat),
	}
	if resp, ok := uc.cache.get(key, now); ok {
		uc.logger.Info("ComputeAvailability: cache hit for shop=%d, service=%d, date=%s",
			req.ShopID, req.ServiceID, key.Date)
		return resp, nil
	}

	// 3. Получаем салон и его рабочие окна на дату
	shop, err := uc.directory.GetShop(ctx, req.ShopID)
	if err != nil {
		if errors.Is(err, directoryservice.ErrShopNotFound) {
			uc.logger.Warn("ComputeAvailability: shop id=%d not found", req.ShopID)
			return nil, ErrShopNotFound
		}
		uc.logger.Error("ComputeAvailability: failed to get shop id=%d: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: failed to get shop: %v", ErrDataUnavailable, err)
	}

	if shop.Hours == nil {
		uc.logger.Warn("ComputeAvailability: shop id=%d has no operating hours configured", req.ShopID)
		return nil, ErrNoOperatingHours
	}

	shopRanges, err := rangesForDay(dayScheduleFor(shop.Hours, req.Date), req.Date)
	if err != nil {
		uc.logger.Error("ComputeAvailability: malformed shop hours for shop id=%d: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: malformed shop hours: %v", ErrInternal, err)
	}

	// Закрыто по календарю: валидный пустой результат, не ошибка конфигурации
	if len(shopRanges) == 0 {
		uc.logger.Info("ComputeAvailability: shop id=%d is closed on %s", req.ShopID, key.Date)
		resp := uc.emptyResponse(req, true)
		uc.cache.put(key, resp, now)
		return resp, nil
	}

	// 4. Получаем услугу и ее параметры планирования
	service, err := uc.directory.GetService(ctx, req.ShopID, req.ServiceID)
	if err != nil {
		if errors.Is(err, directoryservice.ErrServiceNotFound) {
			uc.logger.Warn("ComputeAvailability: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("ComputeAvailability: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrDataUnavailable, err)
	}

	spec := service.ToServiceSpec()
	if err := spec.Validate(); err != nil {
		uc.logger.Error("ComputeAvailability: invalid service id=%d config: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidServiceConfig, err)
	}

	// 5. Пересекаем часы салона с собственным окном услуги
	base := shopRanges
	if service.Window != nil {
		windowRanges, err := rangesForDay(*service.Window, req.Date)
		if err != nil {
			uc.logger.Error("ComputeAvailability: malformed service window for service id=%d: %v", req.ServiceID, err)
			return nil, fmt.Errorf("%w: malformed service window: %v", ErrInternal, err)
		}
		base = domain.IntersectSets(shopRanges, windowRanges)
	}

	if len(base) == 0 {
		uc.logger.Info("ComputeAvailability: service id=%d is not offered on %s", req.ServiceID, key.Date)
		resp := uc.emptyResponse(req, false)
		resp.Spec = spec
		uc.cache.put(key, resp, now)
		return resp, nil
	}

	// Сетка слотов привязана к началу рабочего окна салона, а не к началу
	// каждого свободного диапазона после вычитания занятого времени
	anchor := shopRanges[0].Start

	// 6. Собираем кандидатов-специалистов
	specialists, err := uc.resolveSpecialists(ctx, req, spec)
	if err != nil {
		return nil, err
	}

	// 7. Для каждого специалиста: пересечение с его часами, вычитание
	// занятого времени с буферами, генерация слотов. Слоты, начинающиеся
	// раньше now + минимальное уведомление, не предлагаются: для прошедшей
	// даты это дает пустой результат
	earliestStart := now.Add(uc.minNotice)

	resp := uc.emptyResponse(req, false)
	resp.Spec = spec

	for _, sp := range specialists {
		candidates, profile, err := uc.computeForSpecialist(ctx, req, spec, base, anchor, earliestStart, sp)
		if err != nil {
			return nil, err
		}
		if profile == nil {
			continue
		}

		resp.Profiles[sp.ID] = profile
		resp.Candidates = append(resp.Candidates, candidates...)
	}

	// 8. Хронологический порядок; одинаковое время у разных специалистов
	// упорядочиваем по ID для детерминизма
	sort.SliceStable(resp.Candidates, func(i, j int) bool {
		if !resp.Candidates[i].Slot.Start.Equal(resp.Candidates[j].Slot.Start) {
			return resp.Candidates[i].Slot.Start.Before(resp.Candidates[j].Slot.Start)
		}
		return resp.Candidates[i].SpecialistID < resp.Candidates[j].SpecialistID
	})

	uc.logger.Info("ComputeAvailability: %d candidates across %d specialists for shop=%d, service=%d, date=%s",
		len(resp.Candidates), len(resp.Profiles), req.ShopID, req.ServiceID, key.Date)

	uc.cache.put(key, resp, now)
	return resp, nil
}

// resolveSpecialists возвращает либо одного выбранного специалиста (с
// проверкой навыков), либо всех подходящих для услуги
func (uc *UseCase) resolveSpecialists(ctx context.Context, req *Request, spec *domain.ServiceSpec) ([]*directoryservice.Specialist, error) {
	if req.Specialist.Pinned {
		sp, err := uc.directory.GetSpecialist(ctx, req.Specialist.SpecialistID)
		if err != nil {
			if errors.Is(err, directoryservice.ErrSpecialistNotFound) {
				uc.logger.Warn("ComputeAvailability: specialist id=%d not found", req.Specialist.SpecialistID)
				return nil, ErrSpecialistNotFound
			}
			uc.logger.Error("ComputeAvailability: failed to get specialist id=%d: %v", req.Specialist.SpecialistID, err)
			return nil, fmt.Errorf("%w: failed to get specialist: %v", ErrDataUnavailable, err)
		}

		probe := domain.SpecialistProfile{Skills: sp.SkillSet()}
		if !probe.HasSkills(spec.RequiredSkills) {
			uc.logger.Warn("ComputeAvailability: specialist id=%d lacks required skills for service id=%d",
				sp.ID, spec.ID)
			return nil, ErrSpecialistNotQualified
		}

		return []*directoryservice.Specialist{sp}, nil
	}

	all, err := uc.directory.ListSpecialistsForService(ctx, req.ShopID, req.ServiceID)
	if err != nil {
		uc.logger.Error("ComputeAvailability: failed to list specialists for service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to list specialists: %v", ErrDataUnavailable, err)
	}

	qualified := make([]*directoryservice.Specialist, 0, len(all))
	for _, sp := range all {
		probe := domain.SpecialistProfile{Skills: sp.SkillSet()}
		if probe.HasSkills(spec.RequiredSkills) {
			qualified = append(qualified, sp)
		}
	}

	return qualified, nil
}

// computeForSpecialist рассчитывает слоты одного специалиста.
// Возвращает nil-профиль, если специалист не работает в этот день.
func (uc *UseCase) computeForSpecialist(
	ctx context.Context,
	req *Request,
	spec *domain.ServiceSpec,
	base []domain.TimeRange,
	anchor time.Time,
	earliestStart time.Time,
	sp *directoryservice.Specialist,
) ([]domain.Candidate, *domain.SpecialistProfile, error) {
	if sp.Hours == nil {
		uc.logger.Warn("ComputeAvailability: specialist id=%d has no working hours configured, skipping", sp.ID)
		return nil, nil, nil
	}

	hours, err := rangesForDay(dayScheduleFor(sp.Hours, req.Date), req.Date)
	if err != nil {
		uc.logger.Error("ComputeAvailability: malformed working hours for specialist id=%d: %v", sp.ID, err)
		return nil, nil, fmt.Errorf("%w: malformed specialist hours: %v", ErrInternal, err)
	}
	if len(hours) == 0 {
		return nil, nil, nil
	}

	avail := domain.IntersectSets(base, hours)

	bookings, err := uc.bookingRepo.GetBySpecialistAndDate(ctx, sp.ID, req.Date)
	if err != nil {
		uc.logger.Error("ComputeAvailability: failed to get bookings for specialist id=%d: %v", sp.ID, err)
		return nil, nil, fmt.Errorf("%w: failed to get bookings: %v", ErrDataUnavailable, err)
	}

	free := domain.Subtract(avail, buffer.OccupiedRanges(bookings))

	slots, err := domain.GenerateSlotsAligned(free, spec.Duration(), spec.Granularity(), anchor)
	if err != nil {
		uc.logger.Error("ComputeAvailability: failed to generate slots for specialist id=%d: %v", sp.ID, err)
		return nil, nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	windowStart := req.Date.AddDate(0, 0, -uc.workloadWindowDays)
	windowEnd := req.Date.AddDate(0, 0, uc.workloadWindowDays)
	workload, err := uc.bookingRepo.CountActiveInWindow(ctx, sp.ID, windowStart, windowEnd)
	if err != nil {
		uc.logger.Error("ComputeAvailability: failed to count workload for specialist id=%d: %v", sp.ID, err)
		return nil, nil, fmt.Errorf("%w: failed to count workload: %v", ErrDataUnavailable, err)
	}

	candidates := make([]domain.Candidate, 0, len(slots))
	for _, slot := range slots {
		if slot.Start.Before(earliestStart) {
			continue
		}
		candidates = append(candidates, domain.Candidate{SpecialistID: sp.ID, Slot: slot})
	}

	return candidates, buildProfile(sp, hours, workload), nil
}

func (uc *UseCase) emptyResponse(req *Request, closed bool) *Response {
	return &Response{
		ShopID:     req.ShopID,
		ServiceID:  req.ServiceID,
		Date:       req.Date,
		ShopClosed: closed,
		Candidates: []domain.Candidate{},
		Profiles:   make(map[int64]*domain.SpecialistProfile),
	}
}
