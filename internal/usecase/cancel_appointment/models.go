package cancel_appointment

// Request запрос на отмену бронирования
type Request struct {
	AppointmentID int64
	CustomerID    int64

	// Reason необязательная причина отмены, сохраняется в бронировании
	Reason *string
}
