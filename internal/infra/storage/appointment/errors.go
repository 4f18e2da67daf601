package appointment

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("appointment.repository: booking not found")

	// ErrSlotTaken возвращается при нарушении ограничения уникальности
	// specialist+timerange на коммите. Вызывающая сторона трактует это как
	// конфликт специалиста и запускает ограниченный повтор, а не как
	// сырую ошибку хранилища
	ErrSlotTaken = errors.New("appointment.repository: specialist time range already taken")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
