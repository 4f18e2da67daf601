package schedule_appointment

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/QueueM/QueueMe-SchedulingService/internal/domain"
	"github.com/QueueM/QueueMe-SchedulingService/internal/service/buffer"
)

// balancedWorkloadWeight вес фактора загрузки для balanced_workload;
// остальные веса пропорционально перенормируются
const balancedWorkloadWeight = 0.5

// noAdjacentGap зазор, приписываемый слоту без соседних бронирований
const noAdjacentGap = 24 * time.Hour

// orderAttempts возвращает кандидатов в порядке попыток коммита
// согласно стратегии запроса
func (uc *UseCase) orderAttempts(
	ctx context.Context,
	req *Request,
	spec *domain.ServiceSpec,
	candidates []domain.Candidate,
	profiles map[int64]*domain.SpecialistProfile,
) ([]domain.Candidate, error) {
	strategy, err := ParseStrategy(string(req.Strategy))
	if err != nil {
		return nil, err
	}

	// Кэш доступности может отдать слот, начало которого уже прошло;
	// в прошлое не коммитим
	pool := dropStarted(candidates, uc.timeProvider.Now())
	if strategy == StrategyMinimizeWait && req.PreferredWindow != nil {
		pool = filterByWindow(pool, *req.PreferredWindow)
		if len(pool) == 0 {
			return nil, nil
		}
	}

	switch strategy {
	case StrategyBalancedWorkload:
		weights, err := uc.allocator.Weights().WithWorkloadOverride(balancedWorkloadWeight)
		if err != nil {
			return nil, err
		}
		return uc.allocator.RankWith(weights, pool, profiles, req.CustomerID, spec)

	case StrategyEarliestAvailable, StrategyMinimizeWait:
		ranked, err := uc.allocator.Rank(pool, profiles, req.CustomerID, spec)
		if err != nil {
			return nil, err
		}
		// строго по возрастанию времени начала; при равном времени
		// сохраняется порядок ранжирования
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Slot.Start.Before(ranked[j].Slot.Start)
		})
		return ranked, nil

	case StrategyResourceEfficient:
		ranked, err := uc.allocator.Rank(pool, profiles, req.CustomerID, spec)
		if err != nil {
			return nil, err
		}
		return uc.resortTiesByGap(ctx, ranked, spec, req.Date)

	default:
		return uc.allocator.Rank(pool, profiles, req.CustomerID, spec)
	}
}

// dropStarted отбрасывает кандидатов, чей слот уже начался
func dropStarted(candidates []domain.Candidate, now time.Time) []domain.Candidate {
	out := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Slot.Start.Before(now) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// filterByWindow оставляет кандидатов, чей слот целиком лежит в окне
func filterByWindow(candidates []domain.Candidate, window domain.TimeRange) []domain.Candidate {
	out := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if !c.Slot.Start.Before(window.Start) && !c.Slot.End.After(window.End) {
			out = append(out, c)
		}
	}
	return out
}

// resortTiesByGap пересортировывает группы кандидатов с равной (в пределах
// эпсилон) оценкой: меньший зазор до соседнего бронирования впереди,
// чтобы расписание специалиста фрагментировалось меньше
func (uc *UseCase) resortTiesByGap(
	ctx context.Context,
	ranked []domain.Candidate,
	spec *domain.ServiceSpec,
	date time.Time,
) ([]domain.Candidate, error) {
	occupied := make(map[int64][]domain.TimeRange)

	gapOf := func(c domain.Candidate) (time.Duration, error) {
		ranges, ok := occupied[c.SpecialistID]
		if !ok {
			bookings, err := uc.bookingRepo.GetBySpecialistAndDate(ctx, c.SpecialistID, date)
			if err != nil {
				return 0, err
			}
			ranges = buffer.OccupiedRanges(bookings)
			occupied[c.SpecialistID] = ranges
		}

		eff := buffer.EffectiveRange(c.Slot, spec)
		best := noAdjacentGap
		for _, r := range ranges {
			var d time.Duration
			switch {
			case !r.End.After(eff.Start):
				d = eff.Start.Sub(r.End)
			case !eff.End.After(r.Start):
				d = r.Start.Sub(eff.End)
			default:
				continue
			}
			if d < best {
				best = d
			}
		}
		return best, nil
	}

	for i := 0; i < len(ranked); {
		j := i + 1
		for j < len(ranked) && math.Abs(ranked[j].Score-ranked[i].Score) <= domain.ScoreEpsilon {
			j++
		}

		if j-i > 1 {
			group := ranked[i:j]
			gaps := make(map[int]time.Duration, len(group))
			for k, c := range group {
				gap, err := gapOf(c)
				if err != nil {
					return nil, err
				}
				gaps[k] = gap
			}

			order := make([]int, len(group))
			for k := range order {
				order[k] = k
			}
			sort.SliceStable(order, func(a, b int) bool {
				if gaps[order[a]] != gaps[order[b]] {
					return gaps[order[a]] < gaps[order[b]]
				}
				if !group[order[a]].Slot.Start.Equal(group[order[b]].Slot.Start) {
					return group[order[a]].Slot.Start.Before(group[order[b]].Slot.Start)
				}
				return group[order[a]].SpecialistID < group[order[b]].SpecialistID
			})

			sorted := make([]domain.Candidate, len(group))
			for k, idx := range order {
				sorted[k] = group[idx]
			}
			copy(group, sorted)
		}

		i = j
	}

	return ranked, nil
}
