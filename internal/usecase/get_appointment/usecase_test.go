package get_appointment

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

type fakeApptRepo struct {
	byID map[int64]*domain.ExistingBooking
}

func (f *fakeApptRepo) GetByID(_ context.Context, id int64) (*domain.ExistingBooking, error) {
	if b, ok := f.byID[id]; ok {
		return b, nil
	}
	return nil, apptstorage.ErrBookingNotFound
}

func storedBooking() *domain.ExistingBooking {
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
		Status: domain.StatusConfirmed,
	}
}

func TestExecute_ReturnsOwnBooking(t *testing.T) {
	uc := NewUseCase(&fakeApptRepo{byID: map[int64]*domain.ExistingBooking{55: storedBooking()}}, nopLogger{})

	booking, err := uc.Execute(context.Background(), 55, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(55), booking.ID)
	assert.Equal(t, int64(7), booking.SpecialistID)
}

func TestExecute_NotFound(t *testing.T) {
	uc := NewUseCase(&fakeApptRepo{byID: map[int64]*domain.ExistingBooking{}}, nopLogger{})

	_, err := uc.Execute(context.Background(), 55, 42)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExecute_AccessDenied(t *testing.T) {
	uc := NewUseCase(&fakeApptRepo{byID: map[int64]*domain.ExistingBooking{55: storedBooking()}}, nopLogger{})

	_, err := uc.Execute(context.Background(), 55, 99)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_ValidationFailures(t *testing.T) {
	uc := NewUseCase(&fakeApptRepo{}, nopLogger{})

	_, err := uc.Execute(context.Background(), 0, 42)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), 55, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
