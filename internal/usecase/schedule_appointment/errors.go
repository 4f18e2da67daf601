package schedule_appointment

import "errors"

var (
	// ErrInvalidInput возвращается при ошибке валидации запроса
	ErrInvalidInput = errors.New("schedule_appointment: invalid input")

	// ErrUnknownStrategy возвращается при неизвестной стратегии планирования
	ErrUnknownStrategy = errors.New("schedule_appointment: unknown strategy")

	// ErrShopNotFound возвращается, когда салон не найден
	ErrShopNotFound = errors.New("schedule_appointment: shop not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("schedule_appointment: service not found")

	// ErrSpecialistNotFound возвращается, когда выбранный специалист не найден
	ErrSpecialistNotFound = errors.New("schedule_appointment: specialist not found")

	// ErrSpecialistNotQualified возвращается, когда у выбранного специалиста
	// нет требуемых навыков
	ErrSpecialistNotQualified = errors.New("schedule_appointment: specialist not qualified for service")

	// ErrNoOperatingHours возвращается при несконфигурированных часах салона
	ErrNoOperatingHours = errors.New("schedule_appointment: shop has no operating hours configured")

	// ErrReplaceTargetGone возвращается, когда заменяемое при переносе
	// бронирование больше не активно
	ErrReplaceTargetGone = errors.New("schedule_appointment: appointment to replace is no longer active")

	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("schedule_appointment: internal error")

	// errAttemptConflict внутренний маркер отката транзакции при конфликте;
	// наружу не выходит, конфликт возвращается значением
	errAttemptConflict = errors.New("schedule_appointment: attempt conflict")
)
