package compute_availability

import (
	"fmt"
	"time"

	"github.com/QueueM/QueueMe-SchedulingService/internal/domain"
	"github.com/QueueM/QueueMe-SchedulingService/internal/integrations/directoryservice"
)

// dayScheduleFor возвращает расписание на день недели указанной даты
func dayScheduleFor(week *directoryservice.WeekSchedule, date time.Time) directoryservice.DaySchedule {
	switch date.Weekday() {
	case time.Monday:
		return week.Monday
	case time.Tuesday:
		return week.Tuesday
	case time.Wednesday:
		return week.Wednesday
	case time.Thursday:
		return week.Thursday
	case time.Friday:
		return week.Friday
	case time.Saturday:
		return week.Saturday
	default:
		return week.Sunday
	}
}

// rangesForDay превращает расписание дня в набор рабочих диапазонов на дату.
// Перерыв разбивает день на два окна. Закрытый день дает пустой результат.
func rangesForDay(sched directoryservice.DaySchedule, date time.Time) ([]domain.TimeRange, error) {
	if !sched.IsOpen || sched.OpenTime == nil || sched.CloseTime == nil {
		return nil, nil
	}

	open, err := parseClock(date, *sched.OpenTime)
	if err != nil {
		return nil, err
	}
	closing, err := parseClock(date, *sched.CloseTime)
	if err != nil {
		return nil, err
	}

	if sched.BreakStart == nil || sched.BreakEnd == nil {
		day, err := domain.NewTimeRange(open, closing)
		if err != nil {
			return nil, err
		}
		return []domain.TimeRange{day}, nil
	}

	breakStart, err := parseClock(date, *sched.BreakStart)
	if err != nil {
		return nil, err
	}
	breakEnd, err := parseClock(date, *sched.BreakEnd)
	if err != nil {
		return nil, err
	}

	morning, err := domain.NewTimeRange(open, breakStart)
	if err != nil {
		return nil, err
	}
	evening, err := domain.NewTimeRange(breakEnd, closing)
	if err != nil {
		return nil, err
	}

	return []domain.TimeRange{morning, evening}, nil
}

// parseClock комбинирует дату и время вида "09:00" в момент времени
// в часовом поясе даты
func parseClock(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse(domain.TimeFormat, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %v", clock, err)
	}

	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}

// buildProfile собирает профиль специалиста из данных справочника
// на момент запроса
func buildProfile(sp *directoryservice.Specialist, hours []domain.TimeRange, workload int) *domain.SpecialistProfile {
	return &domain.SpecialistProfile{
		ID:               sp.ID,
		Name:             sp.Name,
		Skills:           sp.SkillSet(),
		WorkingHours:     hours,
		CurrentWorkload:  workload,
		PerformanceScore: sp.PerformanceScore,
		CustomerAffinity: sp.CustomerAffinity,
	}
}
