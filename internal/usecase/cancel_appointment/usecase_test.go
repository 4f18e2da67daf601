package cancel_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/QueueM/QueueMe-SchedulingService/internal/domain"
	apptstorage "github.com/QueueM/QueueMe-SchedulingService/internal/infra/storage/appointment"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type cancelCall struct {
	id     int64
	status domain.BookingStatus
	reason *string
}

type fakeApptRepo struct {
	byID      map[int64]*domain.ExistingBooking
	cancelErr error
	cancelled []cancelCall
}

func (f *fakeApptRepo) GetByID(_ context.Context, id int64) (*domain.ExistingBooking, error) {
	if b, ok := f.byID[id]; ok {
		return b, nil
	}
	return nil, apptstorage.ErrBookingNotFound
}

func (f *fakeApptRepo) MarkCancelled(_ context.Context, id int64, status domain.BookingStatus, reason *string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled = append(f.cancelled, cancelCall{id: id, status: status, reason: reason})
	return nil
}

type fakeInvalidator struct {
	calls []int64
}

func (f *fakeInvalidator) InvalidateCache(_ int64, specialistID int64, _ time.Time) {
	f.calls = append(f.calls, specialistID)
}

func confirmedBooking(status domain.BookingStatus) *domain.ExistingBooking {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	return &domain.ExistingBooking{
		ID:           55,
		ShopID:       1,
		SpecialistID: 7,
		CustomerID:   42,
		ServiceID:    10,
		Slot: domain.TimeRange{
			Start: day.Add(10 * time.Hour),
			End:   day.Add(10*time.Hour + 30*time.Minute),
		},
		Status: status,
	}
}

func TestExecute_CancelsOwnBooking(t *testing.T) {
	repo := &fakeApptRepo{byID: map[int64]*domain.ExistingBooking{55: confirmedBooking(domain.StatusConfirmed)}}
	invalidator := &fakeInvalidator{}
	uc := NewUseCase(repo, invalidator, nopLogger{})

	reason := "client request"
	err := uc.Execute(context.Background(), &Request{AppointmentID: 55, CustomerID: 42, Reason: &reason})
	require.NoError(t, err)

	require.Len(t, repo.cancelled, 1)
	assert.Equal(t, int64(55), repo.cancelled[0].id)
	assert.Equal(t, domain.StatusCancelledByUser, repo.cancelled[0].status)
	require.NotNil(t, repo.cancelled[0].reason)
	assert.Equal(t, "client request", *repo.cancelled[0].reason)

	// освободившийся слот сброшен из кэша доступности
	assert.Equal(t, []int64{7}, invalidator.calls)
}

func TestExecute_NotFound(t *testing.T) {
	uc := NewUseCase(&fakeApptRepo{byID: map[int64]*domain.ExistingBooking{}}, &fakeInvalidator{}, nopLogger{})

	err := uc.Execute(context.Background(), &Request{AppointmentID: 55, CustomerID: 42})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExecute_AccessDenied(t *testing.T) {
	repo := &fakeApptRepo{byID: map[int64]*domain.ExistingBooking{55: confirmedBooking(domain.StatusConfirmed)}}
	invalidator := &fakeInvalidator{}
	uc := NewUseCase(repo, invalidator, nopLogger{})

	err := uc.Execute(context.Background(), &Request{AppointmentID: 55, CustomerID: 99})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, repo.cancelled)
	assert.Empty(t, invalidator.calls)
}

func TestExecute_CannotCancelStarted(t *testing.T) {
	for _, status := range []domain.BookingStatus{
		domain.StatusInProgress,
		domain.StatusCompleted,
		domain.StatusCancelledByUser,
		domain.StatusRescheduled,
	} {
		repo := &fakeApptRepo{byID: map[int64]*domain.ExistingBooking{55: confirmedBooking(status)}}
		uc := NewUseCase(repo, &fakeInvalidator{}, nopLogger{})

		err := uc.Execute(context.Background(), &Request{AppointmentID: 55, CustomerID: 42})
		assert.ErrorIs(t, err, ErrCannotCancel, "status %s", status)
	}
}

func TestExecute_ConcurrentStatusChangeMapsToCannotCancel(t *testing.T) {
	repo := &fakeApptRepo{
		byID:      map[int64]*domain.ExistingBooking{55: confirmedBooking(domain.StatusConfirmed)},
		cancelErr: apptstorage.ErrBookingNotFound,
	}
	invalidator := &fakeInvalidator{}
	uc := NewUseCase(repo, invalidator, nopLogger{})

	err := uc.Execute(context.Background(), &Request{AppointmentID: 55, CustomerID: 42})
	assert.ErrorIs(t, err, ErrCannotCancel)
	assert.Empty(t, invalidator.calls)
}

func TestExecute_ValidationFailures(t *testing.T) {
	uc := NewUseCase(&fakeApptRepo{}, &fakeInvalidator{}, nopLogger{})

	err := uc.Execute(context.Background(), &Request{CustomerID: 42})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = uc.Execute(context.Background(), &Request{AppointmentID: 55})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
