package domain

import "errors"

// Default scheduling configuration values
const (
	DefaultSlotGranularityMinutes = 30
	DefaultServiceCapacity        = 1

	// DefaultMaxCommitRetries bounds the conflict-retry loop on commit
	DefaultMaxCommitRetries = 3

	// DefaultWorkloadWindowDays is the rolling window for workload counting
	DefaultWorkloadWindowDays = 7

	// DefaultMinBookingNoticeMinutes is the minimum lead time before a slot
	// may start, counted from the moment of the request
	DefaultMinBookingNoticeMinutes = 60

	// NeutralAffinity is the customer preference score for unknown pairings
	NeutralAffinity = 0.5

	// ScoreEpsilon is the tolerance for treating two candidate scores as equal
	ScoreEpsilon = 1e-9
)

// Business validation constants
const (
	MinSlotDurationMinutes = 5
	MaxSlotDurationMinutes = 480 // 8 hours
	MinServiceCapacity     = 1
	MaxServiceCapacity     = 100
	MaxBufferMinutes       = 240
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ErrInvalidServiceSpec возвращается при некорректно сконфигурированной услуге
// (нулевая длительность, отрицательные буферы). Ошибка программиста/конфигурации,
// отсекается на границе, а не в момент генерации слотов
var ErrInvalidServiceSpec = errors.New("domain: invalid service spec")

// InactiveStatuses список статусов, не занимающих время в календаре
// Используется для фильтрации при расчёте занятости
var InactiveStatuses = []BookingStatus{
	StatusCancelledByUser,
	StatusCancelledByShop,
	StatusRescheduled,
	StatusNoShow,
}

// ActiveStatuses список статусов, занимающих время в календаре
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
}
