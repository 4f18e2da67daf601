package allocation

import "errors"

var (
	// ErrInvalidWeights возвращается при некорректной конфигурации весов
	// (отрицательные значения, сумма не равна 1.0)
	ErrInvalidWeights = errors.New("allocation.service: invalid scoring weights")

	// ErrMissingProfile возвращается, когда для кандидата нет профиля
	// специалиста - ошибка программиста на вызывающей стороне
	ErrMissingProfile = errors.New("allocation.service: candidate has no specialist profile")
)
