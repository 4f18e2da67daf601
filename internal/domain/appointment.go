package domain

import "time"

// Candidate is an ephemeral computation result: one specialist paired with
// one bookable slot. Produced and consumed within a single scheduling
// request, never persisted. Duplicate slot times across specialists are
// expected and meaningful: they are real alternative choices.
type Candidate struct {
	SpecialistID int64
	Slot         TimeRange
	Score        float64
}

// Appointment is the commit descriptor handed to the appointment repository.
// The repository assigns ID and timestamps; everything else is set by the
// scheduler.
type Appointment struct {
	ID           int64
	ShopID       int64
	ServiceID    int64
	SpecialistID int64
	CustomerID   int64
	ResourceID   *int64

	// Slot is the customer-visible bookable range; its duration always
	// equals the service duration exactly
	Slot TimeRange

	// BufferedRange is Slot expanded by the service buffers. It occupies
	// the specialist's calendar but is invisible to the customer.
	BufferedRange TimeRange

	Status BookingStatus

	CreatedAt time.Time
}
