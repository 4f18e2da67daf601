package reschedule_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/QueueM/QueueMe-SchedulingService/internal/domain"
	apptstorage "github.com/QueueM/QueueMe-SchedulingService/internal/infra/storage/appointment"
	scheduler "github.com/QueueM/QueueMe-SchedulingService/internal/usecase/schedule_appointment"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeScheduler struct {
	resp    *scheduler.Response
	err     error
	lastReq *scheduler.Request
}

func (f *fakeScheduler) Execute(_ context.Context, req *scheduler.Request) (*scheduler.Response, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type fakeApptRepo struct {
	byID map[int64]*domain.ExistingBooking
	err  error
}

func (f *fakeApptRepo) GetByID(_ context.Context, id int64) (*domain.ExistingBooking, error) {
	if f.err != nil {
		return nil, f.err
	}
	if b, ok := f.byID[id]; ok {
		return b, nil
	}
	return nil, apptstorage.ErrBookingNotFound
}

type fakeInvalidator struct {
	calls []int64
}

func (f *fakeInvalidator) InvalidateCache(_ int64, specialistID int64, _ time.Time) {
	f.calls = append(f.calls, specialistID)
}

var (
	oldDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	newDate = time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
)

func oldBooking(status domain.BookingStatus) *domain.ExistingBooking {
	return &domain.ExistingBooking{
		ID:           55,
		ShopID:       1,
		SpecialistID: 7,
		CustomerID:   42,
		ServiceID:    10,
		Slot: domain.TimeRange{
			Start: oldDate.Add(10 * time.Hour),
			End:   oldDate.Add(10*time.Hour + 30*time.Minute),
		},
		Status: status,
	}
}

func TestExecute_SwapsAppointment(t *testing.T) {
	newBooking := &domain.ExistingBooking{
		ID:           77,
		ShopID:       1,
		SpecialistID: 9,
		Slot: domain.TimeRange{
			Start: newDate.Add(14 * time.Hour),
			End:   newDate.Add(14*time.Hour + 30*time.Minute),
		},
		Status: domain.StatusConfirmed,
	}
	sched := &fakeScheduler{resp: &scheduler.Response{
		RequestID:    "req-1",
		State:        scheduler.StateCommitted,
		Sequenced:    true,
		Appointments: []*domain.ExistingBooking{newBooking},
	}}
	invalidator := &fakeInvalidator{}
	uc := NewUseCase(sched, &fakeApptRepo{byID: map[int64]*domain.ExistingBooking{55: oldBooking(domain.StatusConfirmed)}}, invalidator, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 55, Date: newDate})
	require.NoError(t, err)

	assert.Equal(t, scheduler.StateCommitted, resp.State)
	assert.Equal(t, int64(55), resp.PreviousAppointmentID)
	require.NotNil(t, resp.Appointment)
	assert.Equal(t, int64(77), resp.Appointment.ID)

	// планировщику передан атомарный обмен со старыми параметрами услуги
	require.NotNil(t, sched.lastReq)
	require.NotNil(t, sched.lastReq.ReplaceAppointmentID)
	assert.Equal(t, int64(55), *sched.lastReq.ReplaceAppointmentID)
	assert.Equal(t, []int64{10}, sched.lastReq.ServiceIDs)
	assert.Equal(t, int64(42), sched.lastReq.CustomerID)

	// кэш по дате старого бронирования сброшен
	assert.Equal(t, []int64{7}, invalidator.calls)
}

func TestExecute_NotFound(t *testing.T) {
	uc := NewUseCase(&fakeScheduler{}, &fakeApptRepo{byID: map[int64]*domain.ExistingBooking{}}, &fakeInvalidator{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 55, Date: newDate})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExecute_NotReschedulable(t *testing.T) {
	repo := &fakeApptRepo{byID: map[int64]*domain.ExistingBooking{55: oldBooking(domain.StatusCancelledByUser)}}
	uc := NewUseCase(&fakeScheduler{}, repo, &fakeInvalidator{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 55, Date: newDate})
	assert.ErrorIs(t, err, ErrNotReschedulable)
}

func TestExecute_ReplaceTargetGoneMapsToNotReschedulable(t *testing.T) {
	repo := &fakeApptRepo{byID: map[int64]*domain.ExistingBooking{55: oldBooking(domain.StatusConfirmed)}}
	sched := &fakeScheduler{err: scheduler.ErrReplaceTargetGone}
	uc := NewUseCase(sched, repo, &fakeInvalidator{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 55, Date: newDate})
	assert.ErrorIs(t, err, ErrNotReschedulable)
}

func TestExecute_RejectionPassesThrough(t *testing.T) {
	repo := &fakeApptRepo{byID: map[int64]*domain.ExistingBooking{55: oldBooking(domain.StatusConfirmed)}}
	sched := &fakeScheduler{resp: &scheduler.Response{
		RequestID: "req-2",
		State:     scheduler.StateRejected,
		Reason:    scheduler.ReasonNoAvailability,
	}}
	invalidator := &fakeInvalidator{}
	uc := NewUseCase(sched, repo, invalidator, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 55, Date: newDate})
	require.NoError(t, err)
	assert.Equal(t, scheduler.StateRejected, resp.State)
	assert.Equal(t, scheduler.ReasonNoAvailability, resp.Reason)
	assert.Nil(t, resp.Appointment)
	assert.Empty(t, invalidator.calls)
}

func TestExecute_ValidationFailures(t *testing.T) {
	uc := NewUseCase(&fakeScheduler{}, &fakeApptRepo{}, &fakeInvalidator{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{Date: newDate})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{AppointmentID: 55})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
