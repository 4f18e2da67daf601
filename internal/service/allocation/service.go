package allocation

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/QueueM/QueueMe-SchedulingService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Service сервис ранжирования специалистов по взвешенной многофакторной оценке
type Service struct {
	weights Weights
	logger  Logger
}

// NewService создает новый экземпляр сервиса ранжирования
// Веса валидируются на старте: сервис с некорректными весами не создается
func NewService(weights Weights, logger Logger) (*Service, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Service{weights: weights, logger: logger}, nil
}

// Weights возвращает сконфигурированные веса
func (s *Service) Weights() Weights {
	return s.weights
}

// Rank ранжирует кандидатов по убыванию оценки, используя веса сервиса
// Кандидаты не мутируются: возвращается новый срез с заполненными Score
func (s *Service) Rank(
	candidates []domain.Candidate,
	profiles map[int64]*domain.SpecialistProfile,
	customerID int64,
	svc *domain.ServiceSpec,
) ([]domain.Candidate, error) {
	return s.RankWith(s.weights, candidates, profiles, customerID, svc)
}

// RankWith ранжирует кандидатов с переопределенными весами (стратегии
// переопределяют веса на время одного запроса)
func (s *Service) RankWith(
	weights Weights,
	candidates []domain.Candidate,
	profiles map[int64]*domain.SpecialistProfile,
	customerID int64,
	svc *domain.ServiceSpec,
) ([]domain.Candidate, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	for _, c := range candidates {
		if _, ok := profiles[c.SpecialistID]; !ok {
			return nil, fmt.Errorf("%w: specialist id=%d", ErrMissingProfile, c.SpecialistID)
		}
	}

	maxWorkload := 0
	for _, c := range candidates {
		if wl := profiles[c.SpecialistID].CurrentWorkload; wl > maxWorkload {
			maxWorkload = wl
		}
	}

	earliest, latest := candidates[0].Slot.Start, candidates[0].Slot.Start
	for _, c := range candidates[1:] {
		if c.Slot.Start.Before(earliest) {
			earliest = c.Slot.Start
		}
		if c.Slot.Start.After(latest) {
			latest = c.Slot.Start
		}
	}
	waitSpan := latest.Sub(earliest)

	ranked := make([]domain.Candidate, len(candidates))
	for i, c := range candidates {
		profile := profiles[c.SpecialistID]

		score := weights.Workload*workloadScore(profile.CurrentWorkload, maxWorkload) +
			weights.Skills*skillsScore(profile, svc) +
			weights.CustomerPreference*profile.AffinityFor(customerID) +
			weights.WaitTime*waitScore(c.Slot.Start.Sub(earliest), waitSpan) +
			weights.Performance*profile.PerformanceScore

		ranked[i] = domain.Candidate{
			SpecialistID: c.SpecialistID,
			Slot:         c.Slot,
			Score:        score,
		}
	}

	// Детерминированный порядок: по убыванию оценки, при равенстве
	// (в пределах эпсилон) - более ранний слот, затем меньший ID специалиста
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if math.Abs(a.Score-b.Score) > domain.ScoreEpsilon {
			return a.Score > b.Score
		}
		if !a.Slot.Start.Equal(b.Slot.Start) {
			return a.Slot.Start.Before(b.Slot.Start)
		}
		return a.SpecialistID < b.SpecialistID
	})

	s.logger.Info("Rank: scored %d candidates for customer=%d, service=%d, top specialist=%d score=%.4f",
		len(ranked), customerID, svc.ID, ranked[0].SpecialistID, ranked[0].Score)

	return ranked, nil
}

// workloadScore нормированная оценка загрузки: 1 - workload/max
// Если у всех кандидатов нулевая загрузка - 1 для всех
func workloadScore(workload, maxWorkload int) float64 {
	if maxWorkload == 0 {
		return 1.0
	}
	return 1.0 - float64(workload)/float64(maxWorkload)
}

// skillsScore доля требуемых навыков среди навыков специалиста
// Неквалифицированные специалисты отсечены жестким фильтром выше по потоку,
// поэтому среди кандидатов оценка равна 1; без требуемых навыков - тоже 1
func skillsScore(profile *domain.SpecialistProfile, svc *domain.ServiceSpec) float64 {
	if len(svc.RequiredSkills) == 0 {
		return 1.0
	}

	owned := make(map[domain.SkillID]struct{}, len(profile.Skills))
	for _, s := range profile.Skills {
		owned[s] = struct{}{}
	}

	matched := 0
	for _, r := range svc.RequiredSkills {
		if _, ok := owned[r]; ok {
			matched++
		}
	}

	return float64(matched) / float64(len(svc.RequiredSkills))
}

// waitScore обратно пропорциональна удалению слота от самого раннего
// доступного: самый ранний = 1.0, линейно убывает до самого позднего
func waitScore(offset, span time.Duration) float64 {
	if span <= 0 {
		return 1.0
	}
	return 1.0 - float64(offset)/float64(span)
}
