package buffer

import (
	"time"

	"github.com/QueueM/QueueMe-SchedulingService/internal/domain"
)

// ShiftDirection направление сдвига при конфликте буферов
type ShiftDirection string

const (
	ShiftNone    ShiftDirection = "none"
	ShiftEarlier ShiftDirection = "earlier"
	ShiftLater   ShiftDirection = "later"
)

// Resolution результат разрешения конфликта буферов двух соседних услуг
type Resolution struct {
	OK                   bool
	ShiftRequiredMinutes int
	Direction            ShiftDirection
}

// EffectiveRange возвращает диапазон слота, расширенный буферами услуги:
// [slot.Start - buffer_before, slot.End + buffer_after)
// Буферы - это время специалиста, а не клиента: они не показываются
// в клиентской выдаче, но занимают календарь при проверке конфликтов
func EffectiveRange(slot domain.TimeRange, svc *domain.ServiceSpec) domain.TimeRange {
	return domain.TimeRange{
		Start: slot.Start.Add(-time.Duration(svc.BufferBeforeMinutes) * time.Minute),
		End:   slot.End.Add(time.Duration(svc.BufferAfterMinutes) * time.Minute),
	}
}

// OccupiedRanges возвращает эффективные (расширенные буферами) диапазоны
// активных бронирований. Неактивные бронирования время не занимают
func OccupiedRanges(bookings []*domain.ExistingBooking) []domain.TimeRange {
	occupied := make([]domain.TimeRange, 0, len(bookings))
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		occupied = append(occupied, b.EffectiveRange())
	}
	return occupied
}

// ResolveBufferConflict разрешает конфликт буферов двух соседних услуг
// одного специалиста: сами слоты не пересекаются, но расширенные буферами
// диапазоны могут. Сдвиг считается для rangeB: если rangeB позже - его
// нужно сдвинуть позже, если раньше - раньше
func ResolveBufferConflict(rangeA, rangeB domain.TimeRange, svcA, svcB *domain.ServiceSpec) Resolution {
	effectiveA := EffectiveRange(rangeA, svcA)
	effectiveB := EffectiveRange(rangeB, svcB)

	if !effectiveA.Overlaps(effectiveB) {
		return Resolution{OK: true, Direction: ShiftNone}
	}

	// Величина сдвига - пересечение эффективных диапазонов, округленное
	// вверх до минуты
	earlier, later := effectiveA, effectiveB
	direction := ShiftLater
	if rangeB.Start.Before(rangeA.Start) {
		earlier, later = effectiveB, effectiveA
		direction = ShiftEarlier
	}

	overlap := earlier.End.Sub(later.Start)
	minutes := int(overlap / time.Minute)
	if overlap%time.Minute != 0 {
		minutes++
	}

	return Resolution{
		OK:                   false,
		ShiftRequiredMinutes: minutes,
		Direction:            direction,
	}
}
