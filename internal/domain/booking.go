package domain

import (
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending            BookingStatus = "pending"
	StatusConfirmed          BookingStatus = "confirmed"
	StatusInProgress         BookingStatus = "in_progress"
	StatusCompleted          BookingStatus = "completed"
	StatusCancelledByUser    BookingStatus = "cancelled_by_user"
	StatusCancelledByShop    BookingStatus = "cancelled_by_shop"
	StatusRescheduled        BookingStatus = "rescheduled"
	StatusNoShow             BookingStatus = "no_show"
)

// ExistingBooking represents a booking already on a specialist's calendar.
// Buffer minutes are denormalized from the booked service, so the effective
// occupied range can be computed without another service lookup.
type ExistingBooking struct {
	ID           int64
	ShopID       int64
	SpecialistID int64
	CustomerID   int64
	ServiceID    int64
	ResourceID   *int64 // room/equipment, nil when the service needs none
	Slot         TimeRange

	BufferBeforeMinutes int
	BufferAfterMinutes  int

	Status BookingStatus

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking occupies calendar time.
// Cancelled, rescheduled and no-show bookings do not.
func (b *ExistingBooking) IsActive() bool {
	return b.Status != StatusCancelledByUser &&
		b.Status != StatusCancelledByShop &&
		b.Status != StatusRescheduled &&
		b.Status != StatusNoShow
}

// CanBeCancelled returns true while the visit has not started.
// In-progress and completed bookings stay on the calendar as history.
func (b *ExistingBooking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsCancelled returns true if the booking has been cancelled
func (b *ExistingBooking) IsCancelled() bool {
	return b.Status == StatusCancelledByUser || b.Status == StatusCancelledByShop
}

// EffectiveRange returns the booking slot expanded by its own service's
// buffers. Conflict checks always use this range, never the raw slot.
func (b *ExistingBooking) EffectiveRange() TimeRange {
	return TimeRange{
		Start: b.Slot.Start.Add(-time.Duration(b.BufferBeforeMinutes) * time.Minute),
		End:   b.Slot.End.Add(time.Duration(b.BufferAfterMinutes) * time.Minute),
	}
}
