package directoryservice

import "errors"

var (
	// ErrShopNotFound возвращается, когда салон не найден
	ErrShopNotFound = errors.New("directoryservice: shop not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("directoryservice: service not found")

	// ErrSpecialistNotFound возвращается, когда специалист не найден
	ErrSpecialistNotFound = errors.New("directoryservice: specialist not found")

	// ErrInvalidResponse возвращается при неожиданном ответе сервиса
	ErrInvalidResponse = errors.New("directoryservice: invalid response")

	// ErrInternal возвращается при сетевых и внутренних ошибках клиента
	ErrInternal = errors.New("directoryservice: internal error")
)
