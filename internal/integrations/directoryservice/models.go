package directoryservice

import (
	"github.com/QueueM/QueueMe-SchedulingService/internal/domain"
)

// Shop салон/точка обслуживания
type Shop struct {
	ID       int64         `json:"id"`
	Name     string        `json:"name"`
	Timezone string        `json:"timezone"`
	Hours    *WeekSchedule `json:"workingHours"` // nil = часы работы вообще не сконфигурированы
}

// WeekSchedule расписание работы по дням недели
type WeekSchedule struct {
	Monday    DaySchedule `json:"monday"`
	Tuesday   DaySchedule `json:"tuesday"`
	Wednesday DaySchedule `json:"wednesday"`
	Thursday  DaySchedule `json:"thursday"`
	Friday    DaySchedule `json:"friday"`
	Saturday  DaySchedule `json:"saturday"`
	Sunday    DaySchedule `json:"sunday"`
}

// DaySchedule расписание одного дня
// Перерыв (BreakStart/BreakEnd) разбивает день на два рабочих окна
type DaySchedule struct {
	IsOpen     bool    `json:"isOpen"`
	OpenTime   *string `json:"openTime,omitempty"`  // "09:00"
	CloseTime  *string `json:"closeTime,omitempty"` // "18:00"
	BreakStart *string `json:"breakStart,omitempty"`
	BreakEnd   *string `json:"breakEnd,omitempty"`
}

// Service услуга салона с параметрами планирования
type Service struct {
	ID                     int64   `json:"id"`
	ShopID                 int64   `json:"shopId"`
	Name                   string  `json:"name"`
	DurationMinutes        int     `json:"durationMinutes"`
	BufferBeforeMinutes    int     `json:"bufferBeforeMinutes"`
	BufferAfterMinutes     int     `json:"bufferAfterMinutes"`
	SlotGranularityMinutes int     `json:"slotGranularityMinutes"`
	Capacity               int     `json:"capacity"`
	RequiredSkills         []int64 `json:"requiredSkills"`

	// Window собственное под-окно доступности услуги
	// (например, "только утром"); nil = вся смена
	Window *DaySchedule `json:"availabilityWindow,omitempty"`
}

// Specialist специалист с навыками и расписанием
type Specialist struct {
	ID               int64             `json:"id"`
	Name             string            `json:"name"`
	Skills           []int64           `json:"skills"`
	Hours            *WeekSchedule     `json:"workingHours"`
	PerformanceScore float64           `json:"performanceScore"`
	CustomerAffinity map[int64]float64 `json:"customerAffinity,omitempty"`
}

// ToServiceSpec конвертирует услугу в доменную спецификацию
func (s *Service) ToServiceSpec() *domain.ServiceSpec {
	skills := make([]domain.SkillID, len(s.RequiredSkills))
	for i, id := range s.RequiredSkills {
		skills[i] = domain.SkillID(id)
	}

	return &domain.ServiceSpec{
		ID:                     s.ID,
		Name:                   s.Name,
		DurationMinutes:        s.DurationMinutes,
		BufferBeforeMinutes:    s.BufferBeforeMinutes,
		BufferAfterMinutes:     s.BufferAfterMinutes,
		SlotGranularityMinutes: s.SlotGranularityMinutes,
		Capacity:               s.Capacity,
		RequiredSkills:         skills,
	}
}

// SkillSet возвращает навыки специалиста как доменные идентификаторы
func (sp *Specialist) SkillSet() []domain.SkillID {
	skills := make([]domain.SkillID, len(sp.Skills))
	for i, id := range sp.Skills {
		skills[i] = domain.SkillID(id)
	}
	return skills
}
