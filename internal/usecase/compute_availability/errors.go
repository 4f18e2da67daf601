package compute_availability

import "errors"

var (
	// ErrInvalidInput возвращается при ошибке валидации запроса
	ErrInvalidInput = errors.New("compute_availability: invalid input")

	// ErrShopNotFound возвращается, когда салон не найден
	ErrShopNotFound = errors.New("compute_availability: shop not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("compute_availability: service not found")

	// ErrSpecialistNotFound возвращается, когда выбранный специалист не найден
	ErrSpecialistNotFound = errors.New("compute_availability: specialist not found")

	// ErrSpecialistNotQualified возвращается, когда у выбранного специалиста
	// нет требуемых для услуги навыков
	ErrSpecialistNotQualified = errors.New("compute_availability: specialist not qualified for service")

	// ErrNoOperatingHours возвращается, когда у салона вообще не настроены
	// часы работы (ошибка конфигурации, а не "закрыто в этот день")
	ErrNoOperatingHours = errors.New("compute_availability: shop has no operating hours configured")

	// ErrInvalidServiceConfig возвращается при некорректных параметрах услуги
	// (длительность, гранулярность, вместимость)
	ErrInvalidServiceConfig = errors.New("compute_availability: invalid service configuration")

	// ErrDataUnavailable возвращается при недоступности источников данных
	ErrDataUnavailable = errors.New("compute_availability: data unavailable")

	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("compute_availability: internal error")
)
