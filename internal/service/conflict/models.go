package conflict

// Kind вид результата проверки конфликтов
type Kind string

const (
	KindNoConflict         Kind = "no_conflict"
	KindSpecialistConflict Kind = "specialist_conflict"
	KindResourceConflict   Kind = "resource_conflict"
	KindCapacityExceeded   Kind = "capacity_exceeded"
)

// Result результат проверки конфликтов. Конфликт - это ожидаемый исход,
// а не ошибка: вызывающая сторона разбирает его по Kind
type Result struct {
	Kind Kind

	// ExistingBookingID заполнен для KindSpecialistConflict
	ExistingBookingID int64

	// ResourceID заполнен для KindResourceConflict
	ResourceID int64

	// Current и Max заполнены для KindCapacityExceeded
	Current int
	Max     int
}

// HasConflict возвращает true для любого результата кроме NoConflict
func (r Result) HasConflict() bool {
	return r.Kind != KindNoConflict
}

// NoConflict результат без конфликтов
func NoConflict() Result {
	return Result{Kind: KindNoConflict}
}

// SpecialistConflict конфликт с существующим бронированием специалиста
func SpecialistConflict(bookingID int64) Result {
	return Result{Kind: KindSpecialistConflict, ExistingBookingID: bookingID}
}

// ResourceConflict конфликт по ресурсу (кабинет/оборудование занято)
func ResourceConflict(resourceID int64) Result {
	return Result{Kind: KindResourceConflict, ResourceID: resourceID}
}

// CapacityExceeded превышение вместимости групповой услуги
func CapacityExceeded(current, max int) Result {
	return Result{Kind: KindCapacityExceeded, Current: current, Max: max}
}
