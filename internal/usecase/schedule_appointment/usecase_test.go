package schedule_appointment

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/QueueM/QueueMe-SchedulingService/internal/domain"
	apptstorage "github.com/QueueM/QueueMe-SchedulingService/internal/infra/storage/appointment"
	"github.com/QueueM/QueueMe-SchedulingService/internal/service/allocation"
	"github.com/QueueM/QueueMe-SchedulingService/internal/service/conflict"
	availability "github.com/QueueM/QueueMe-SchedulingService/internal/usecase/compute_availability"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var testDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func at(h, m int) time.Time {
	return time.Date(2026, 3, 10, h, m, 0, 0, time.UTC)
}

func slot(h, m, durMin int) domain.TimeRange {
	start := at(h, m)
	return domain.TimeRange{Start: start, End: start.Add(time.Duration(durMin) * time.Minute)}
}

func spec(id int64, durMin int) *domain.ServiceSpec {
	return &domain.ServiceSpec{
		ID:                     id,
		Name:                   "Service",
		DurationMinutes:        durMin,
		SlotGranularityMinutes: 15,
		Capacity:               1,
	}
}

func profile(id int64, workload int) *domain.SpecialistProfile {
	return &domain.SpecialistProfile{
		ID:               id,
		CurrentWorkload:  workload,
		PerformanceScore: 0.8,
	}
}

type fakeAvailability struct {
	responses   map[int64]*availability.Response
	err         error
	invalidated []int64
}

func (f *fakeAvailability) Execute(_ context.Context, req *availability.Request) (*availability.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.responses[req.ServiceID], nil
}

func (f *fakeAvailability) InvalidateCache(_ int64, specialistID int64, _ time.Time) {
	f.invalidated = append(f.invalidated, specialistID)
}

type fakeConflicts struct {
	results []conflict.Result
	err     error
	calls   int
}

func (f *fakeConflicts) Check(_ context.Context, _ int64, _ domain.TimeRange, _ *domain.ServiceSpec, _ *int64) (conflict.Result, error) {
	f.calls++
	if f.err != nil {
		return conflict.Result{}, f.err
	}
	if len(f.results) > 0 {
		res := f.results[0]
		f.results = f.results[1:]
		return res, nil
	}
	return conflict.NoConflict(), nil
}

type fakeBookingRepo struct {
	bySpecialist map[int64][]*domain.ExistingBooking
}

func (f *fakeBookingRepo) GetBySpecialistAndDate(_ context.Context, specialistID int64, _ time.Time) ([]*domain.ExistingBooking, error) {
	return f.bySpecialist[specialistID], nil
}

type fakeApptRepo struct {
	nextID      int64
	taken       map[string]bool
	created     []*domain.ExistingBooking
	rescheduled []int64
	markErr     error
}

func newFakeApptRepo() *fakeApptRepo {
	return &fakeApptRepo{taken: make(map[string]bool)}
}

func (f *fakeApptRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.ExistingBooking, error) {
	key := fmt.Sprintf("%d@%s", appt.SpecialistID, appt.Slot.Start.Format(time.RFC3339))
	if f.taken[key] {
		return nil, apptstorage.ErrSlotTaken
	}
	f.taken[key] = true

	f.nextID++
	booking := &domain.ExistingBooking{
		ID:           f.nextID,
		ShopID:       appt.ShopID,
		SpecialistID: appt.SpecialistID,
		CustomerID:   appt.CustomerID,
		ServiceID:    appt.ServiceID,
		ResourceID:   appt.ResourceID,
		Slot:         appt.Slot,
		Status:       appt.Status,
	}
	f.created = append(f.created, booking)
	return booking, nil
}

func (f *fakeApptRepo) MarkRescheduled(_ context.Context, id int64) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.rescheduled = append(f.rescheduled, id)
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func availResponse(serviceID int64, svcSpec *domain.ServiceSpec, profiles map[int64]*domain.SpecialistProfile, candidates ...domain.Candidate) *availability.Response {
	return &availability.Response{
		ShopID:     1,
		ServiceID:  serviceID,
		Date:       testDate,
		Spec:       svcSpec,
		Candidates: candidates,
		Profiles:   profiles,
	}
}

func newTestUseCase(avail *fakeAvailability, conflicts *fakeConflicts, repo *fakeApptRepo, bookings *fakeBookingRepo) *UseCase {
	allocator, err := allocation.NewService(allocation.DefaultWeights(), nopLogger{})
	if err != nil {
		panic(err)
	}
	if bookings == nil {
		bookings = &fakeBookingRepo{}
	}
	uc := NewUseCase(avail, conflicts, allocator, bookings, repo, fakeTxManager{}, 3, nil, nopLogger{})
	uc.timeProvider = fixedClock{t: testDate}
	return uc
}

func singleServiceRequest() *Request {
	return &Request{
		ShopID:     1,
		CustomerID: 42,
		ServiceIDs: []int64{10},
		Date:       testDate,
	}
}

func TestExecute_CommitsSingleService(t *testing.T) {
	avail := &fakeAvailability{responses: map[int64]*availability.Response{
		10: availResponse(10, spec(10, 30),
			map[int64]*domain.SpecialistProfile{7: profile(7, 0)},
			domain.Candidate{SpecialistID: 7, Slot: slot(10, 0, 30)},
		),
	}}
	repo := newFakeApptRepo()
	uc := newTestUseCase(avail, &fakeConflicts{}, repo, nil)

	resp, err := uc.Execute(context.Background(), singleServiceRequest())
	require.NoError(t, err)

	assert.Equal(t, StateCommitted, resp.State)
	assert.True(t, resp.Sequenced)
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, int64(7), resp.Appointments[0].SpecialistID)
	assert.Equal(t, at(10, 0), resp.Appointments[0].Slot.Start)
	assert.NotEmpty(t, resp.RequestID)
	assert.Equal(t, []int64{7}, avail.invalidated)
}

func TestExecute_ConcurrentDuplicateCommitsOnce(t *testing.T) {
	profiles := map[int64]*domain.SpecialistProfile{7: profile(7, 0)}
	newAvail := func() *fakeAvailability {
		return &fakeAvailability{responses: map[int64]*availability.Response{
			10: availResponse(10, spec(10, 30), profiles,
				domain.Candidate{SpecialistID: 7, Slot: slot(10, 0, 30)},
				domain.Candidate{SpecialistID: 7, Slot: slot(10, 30, 30)},
			),
		}}
	}

	// оба запроса видят один и тот же снимок доступности, хранилище общее
	repo := newFakeApptRepo()
	first := newTestUseCase(newAvail(), &fakeConflicts{}, repo, nil)
	second := newTestUseCase(newAvail(), &fakeConflicts{}, repo, nil)

	respA, err := first.Execute(context.Background(), singleServiceRequest())
	require.NoError(t, err)
	require.Equal(t, StateCommitted, respA.State)
	assert.Equal(t, at(10, 0), respA.Appointments[0].Slot.Start)

	// нарушение уникальности на коммите трактуется как конфликт
	// и запускает повтор на следующем кандидате
	respB, err := second.Execute(context.Background(), singleServiceRequest())
	require.NoError(t, err)
	require.Equal(t, StateCommitted, respB.State)
	assert.Equal(t, at(10, 30), respB.Appointments[0].Slot.Start)

	assert.Len(t, repo.created, 2)
}

func TestExecute_ConcurrentDuplicateSingleSlotRejected(t *testing.T) {
	profiles := map[int64]*domain.SpecialistProfile{7: profile(7, 0)}
	newAvail := func() *fakeAvailability {
		return &fakeAvailability{responses: map[int64]*availability.Response{
			10: availResponse(10, spec(10, 30), profiles,
				domain.Candidate{SpecialistID: 7, Slot: slot(10, 0, 30)},
			),
		}}
	}

	repo := newFakeApptRepo()
	first := newTestUseCase(newAvail(), &fakeConflicts{}, repo, nil)
	second := newTestUseCase(newAvail(), &fakeConflicts{}, repo, nil)

	respA, err := first.Execute(context.Background(), singleServiceRequest())
	require.NoError(t, err)
	require.Equal(t, StateCommitted, respA.State)

	respB, err := second.Execute(context.Background(), singleServiceRequest())
	require.NoError(t, err)
	assert.Equal(t, StateRejected, respB.State)
	assert.Equal(t, ReasonAllCandidatesConflicted, respB.Reason)
	assert.Len(t, repo.created, 1)
}

func TestExecute_NoAvailability(t *testing.T) {
	avail := &fakeAvailability{responses: map[int64]*availability.Response{
		10: availResponse(10, spec(10, 30), map[int64]*domain.SpecialistProfile{}),
	}}
	uc := newTestUseCase(avail, &fakeConflicts{}, newFakeApptRepo(), nil)

	resp, err := uc.Execute(context.Background(), singleServiceRequest())
	require.NoError(t, err)
	assert.Equal(t, StateRejected, resp.State)
	assert.Equal(t, ReasonNoAvailability, resp.Reason)
}

func TestExecute_PinnedSpecialistUnavailable(t *testing.T) {
	avail := &fakeAvailability{responses: map[int64]*availability.Response{
		10: availResponse(10, spec(10, 30), map[int64]*domain.SpecialistProfile{}),
	}}
	uc := newTestUseCase(avail, &fakeConflicts{}, newFakeApptRepo(), nil)

	req := singleServiceRequest()
	req.Specialist = domain.PinnedSpecialist(7)

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, StateRejected, resp.State)
	assert.Equal(t, ReasonSpecialistUnavailable, resp.Reason)
}

func TestExecute_RetriesAreBounded(t *testing.T) {
	avail := &fakeAvailability{responses: map[int64]*availability.Response{
		10: availResponse(10, spec(10, 30),
			map[int64]*domain.SpecialistProfile{7: profile(7, 0)},
			domain.Candidate{SpecialistID: 7, Slot: slot(10, 0, 30)},
			domain.Candidate{SpecialistID: 7, Slot: slot(10, 30, 30)},
			domain.Candidate{SpecialistID: 7, Slot: slot(11, 0, 30)},
			domain.Candidate{SpecialistID: 7, Slot: slot(11, 30, 30)},
			domain.Candidate{SpecialistID: 7, Slot: slot(12, 0, 30)},
		),
	}}
	conflicts := &fakeConflicts{results: []conflict.Result{
		conflict.SpecialistConflict(1),
		conflict.SpecialistConflict(2),
		conflict.SpecialistConflict(3),
		conflict.SpecialistConflict(4),
		conflict.SpecialistConflict(5),
	}}
	uc := newTestUseCase(avail, conflicts, newFakeApptRepo(), nil)

	resp, err := uc.Execute(context.Background(), singleServiceRequest())
	require.NoError(t, err)
	assert.Equal(t, StateRejected, resp.State)
	assert.Equal(t, ReasonAllCandidatesConflicted, resp.Reason)
	assert.Equal(t, 3, conflicts.calls)
}

func TestExecute_DataOutageIsTemporaryFailure(t *testing.T) {
	avail := &fakeAvailability{err: fmt.Errorf("%w: db down", availability.ErrDataUnavailable)}
	uc := newTestUseCase(avail, &fakeConflicts{}, newFakeApptRepo(), nil)

	resp, err := uc.Execute(context.Background(), singleServiceRequest())
	require.NoError(t, err)
	assert.Equal(t, StateRejected, resp.State)
	assert.Equal(t, ReasonTemporaryFailure, resp.Reason)
}

func TestExecute_UnknownStrategy(t *testing.T) {
	uc := newTestUseCase(&fakeAvailability{}, &fakeConflicts{}, newFakeApptRepo(), nil)

	req := singleServiceRequest()
	req.Strategy = "round_robin"

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestExecute_MinimizeWaitScopesToPreferredWindow(t *testing.T) {
	avail := &fakeAvailability{responses: map[int64]*availability.Response{
		10: availResponse(10, spec(10, 30),
			map[int64]*domain.SpecialistProfile{7: profile(7, 0)},
			domain.Candidate{SpecialistID: 7, Slot: slot(9, 0, 30)},
			domain.Candidate{SpecialistID: 7, Slot: slot(14, 0, 30)},
			domain.Candidate{SpecialistID: 7, Slot: slot(15, 0, 30)},
		),
	}}
	uc := newTestUseCase(avail, &fakeConflicts{}, newFakeApptRepo(), nil)

	req := singleServiceRequest()
	req.Strategy = StrategyMinimizeWait
	req.PreferredWindow = &domain.TimeRange{Start: at(14, 0), End: at(18, 0)}

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, StateCommitted, resp.State)
	assert.Equal(t, at(14, 0), resp.Appointments[0].Slot.Start)
}

func TestExecute_SequencedTwoServices(t *testing.T) {
	profiles := map[int64]*domain.SpecialistProfile{7: profile(7, 0)}
	avail := &fakeAvailability{responses: map[int64]*availability.Response{
		10: availResponse(10, spec(10, 30), profiles,
			domain.Candidate{SpecialistID: 7, Slot: slot(9, 0, 30)},
			domain.Candidate{SpecialistID: 7, Slot: slot(9, 30, 30)},
		),
		11: availResponse(11, spec(11, 45), profiles,
			domain.Candidate{SpecialistID: 7, Slot: slot(9, 30, 45)},
			domain.Candidate{SpecialistID: 7, Slot: slot(10, 15, 45)},
		),
	}}
	repo := newFakeApptRepo()
	uc := newTestUseCase(avail, &fakeConflicts{}, repo, nil)

	req := singleServiceRequest()
	req.ServiceIDs = []int64{10, 11}

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, StateCommitted, resp.State)
	assert.True(t, resp.Sequenced)
	require.Len(t, resp.Appointments, 2)
	assert.Equal(t, int64(7), resp.Appointments[0].SpecialistID)
	assert.Equal(t, int64(7), resp.Appointments[1].SpecialistID)
	assert.Equal(t, at(9, 0), resp.Appointments[0].Slot.Start)
	// вторая услуга стартует сразу после первой: 75 минут подряд
	assert.Equal(t, at(9, 30), resp.Appointments[1].Slot.Start)
	assert.Equal(t, at(10, 15), resp.Appointments[1].Slot.End)
}

func TestExecute_SequenceFallsBackToIndependent(t *testing.T) {
	avail := &fakeAvailability{responses: map[int64]*availability.Response{
		10: availResponse(10, spec(10, 30),
			map[int64]*domain.SpecialistProfile{7: profile(7, 0)},
			domain.Candidate{SpecialistID: 7, Slot: slot(9, 0, 30)},
		),
		11: availResponse(11, spec(11, 45),
			map[int64]*domain.SpecialistProfile{8: profile(8, 0)},
			domain.Candidate{SpecialistID: 8, Slot: slot(9, 0, 45)},
		),
	}}
	repo := newFakeApptRepo()
	uc := newTestUseCase(avail, &fakeConflicts{}, repo, nil)

	req := singleServiceRequest()
	req.ServiceIDs = []int64{10, 11}

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, StateCommitted, resp.State)
	assert.False(t, resp.Sequenced)
	require.Len(t, resp.Appointments, 2)
	assert.Equal(t, int64(7), resp.Appointments[0].SpecialistID)
	assert.Equal(t, int64(8), resp.Appointments[1].SpecialistID)
}

func TestExecute_SequenceRespectsBuffers(t *testing.T) {
	svcA := spec(10, 30)
	svcA.BufferAfterMinutes = 15
	svcB := spec(11, 45)

	profiles := map[int64]*domain.SpecialistProfile{7: profile(7, 0)}
	avail := &fakeAvailability{responses: map[int64]*availability.Response{
		10: availResponse(10, svcA, profiles,
			domain.Candidate{SpecialistID: 7, Slot: slot(9, 0, 30)},
		),
		11: availResponse(11, svcB, profiles,
			domain.Candidate{SpecialistID: 7, Slot: slot(9, 30, 45)},
			domain.Candidate{SpecialistID: 7, Slot: slot(9, 45, 45)},
		),
	}}
	repo := newFakeApptRepo()
	uc := newTestUseCase(avail, &fakeConflicts{}, repo, nil)

	req := singleServiceRequest()
	req.ServiceIDs = []int64{10, 11}

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, StateCommitted, resp.State)
	assert.True(t, resp.Sequenced)
	// буфер после первой услуги сдвигает вторую минимум на 9:45
	assert.Equal(t, at(9, 45), resp.Appointments[1].Slot.Start)
}

func TestExecute_ReplaceMarksOldAppointment(t *testing.T) {
	avail := &fakeAvailability{responses: map[int64]*availability.Response{
		10: availResponse(10, spec(10, 30),
			map[int64]*domain.SpecialistProfile{7: profile(7, 0)},
			domain.Candidate{SpecialistID: 7, Slot: slot(12, 0, 30)},
		),
	}}
	repo := newFakeApptRepo()
	uc := newTestUseCase(avail, &fakeConflicts{}, repo, nil)

	req := singleServiceRequest()
	oldID := int64(55)
	req.ReplaceAppointmentID = &oldID

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, StateCommitted, resp.State)
	assert.Equal(t, []int64{55}, repo.rescheduled)
}

func TestExecute_ReplaceTargetGone(t *testing.T) {
	avail := &fakeAvailability{responses: map[int64]*availability.Response{
		10: availResponse(10, spec(10, 30),
			map[int64]*domain.SpecialistProfile{7: profile(7, 0)},
			domain.Candidate{SpecialistID: 7, Slot: slot(12, 0, 30)},
		),
	}}
	repo := newFakeApptRepo()
	repo.markErr = apptstorage.ErrBookingNotFound
	uc := newTestUseCase(avail, &fakeConflicts{}, repo, nil)

	req := singleServiceRequest()
	oldID := int64(55)
	req.ReplaceAppointmentID = &oldID

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrReplaceTargetGone)
}

func TestExecute_ValidationFailures(t *testing.T) {
	uc := newTestUseCase(&fakeAvailability{}, &fakeConflicts{}, newFakeApptRepo(), nil)

	_, err := uc.Execute(context.Background(), &Request{CustomerID: 1, ServiceIDs: []int64{10}, Date: testDate})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{ShopID: 1, CustomerID: 1, Date: testDate})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{ShopID: 1, CustomerID: 1, ServiceIDs: []int64{10}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_BalancedWorkloadPrefersLighterCalendar(t *testing.T) {
	profiles := map[int64]*domain.SpecialistProfile{
		7: profile(7, 8),
		8: profile(8, 0),
	}
	newAvail := func() *fakeAvailability {
		return &fakeAvailability{responses: map[int64]*availability.Response{
			10: availResponse(10, spec(10, 30), profiles,
				domain.Candidate{SpecialistID: 7, Slot: slot(9, 0, 30)},
				domain.Candidate{SpecialistID: 8, Slot: slot(10, 0, 30)},
			),
		}}
	}

	// earliest_available берет более ранний слот загруженного специалиста
	uc := newTestUseCase(newAvail(), &fakeConflicts{}, newFakeApptRepo(), nil)
	req := singleServiceRequest()
	req.Strategy = StrategyEarliestAvailable

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, StateCommitted, resp.State)
	assert.Equal(t, int64(7), resp.Appointments[0].SpecialistID)
	assert.Equal(t, at(9, 0), resp.Appointments[0].Slot.Start)

	// balanced_workload отдает запись свободному, несмотря на позднее время
	uc = newTestUseCase(newAvail(), &fakeConflicts{}, newFakeApptRepo(), nil)
	req = singleServiceRequest()
	req.Strategy = StrategyBalancedWorkload

	resp, err = uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, StateCommitted, resp.State)
	assert.Equal(t, int64(8), resp.Appointments[0].SpecialistID)
	assert.Equal(t, at(10, 0), resp.Appointments[0].Slot.Start)
}

func TestExecute_ResourceEfficientFillsAdjacentGap(t *testing.T) {
	// одинаковые профили и одинаковое время слота: оценки равны, и порядок
	// внутри группы решает зазор до соседнего бронирования
	profiles := map[int64]*domain.SpecialistProfile{
		7: profile(7, 0),
		8: profile(8, 0),
	}
	avail := &fakeAvailability{responses: map[int64]*availability.Response{
		10: availResponse(10, spec(10, 30), profiles,
			domain.Candidate{SpecialistID: 7, Slot: slot(10, 0, 30)},
			domain.Candidate{SpecialistID: 8, Slot: slot(10, 0, 30)},
		),
	}}
	bookings := &fakeBookingRepo{bySpecialist: map[int64][]*domain.ExistingBooking{
		8: {{
			ID:           500,
			SpecialistID: 8,
			Slot:         slot(10, 30, 30),
			Status:       domain.StatusConfirmed,
		}},
	}}
	repo := newFakeApptRepo()
	uc := newTestUseCase(avail, &fakeConflicts{}, repo, bookings)

	req := singleServiceRequest()
	req.Strategy = StrategyResourceEfficient

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// при равных оценках обычный порядок отдал бы специалиста 7 (меньший ID);
	// слот специалиста 8 примыкает к его бронированию в 10:30, зазор ноль
	require.Equal(t, StateCommitted, resp.State)
	assert.Equal(t, int64(8), resp.Appointments[0].SpecialistID)
	assert.Equal(t, at(10, 0), resp.Appointments[0].Slot.Start)
}

func TestExecute_StartedSlotsNotCommitted(t *testing.T) {
	avail := &fakeAvailability{responses: map[int64]*availability.Response{
		10: availResponse(10, spec(10, 30),
			map[int64]*domain.SpecialistProfile{7: profile(7, 0)},
			domain.Candidate{SpecialistID: 7, Slot: slot(9, 0, 30)},
			domain.Candidate{SpecialistID: 7, Slot: slot(14, 30, 30)},
			domain.Candidate{SpecialistID: 7, Slot: slot(15, 30, 30)},
		),
	}}
	repo := newFakeApptRepo()
	uc := newTestUseCase(avail, &fakeConflicts{}, repo, nil)
	uc.timeProvider = fixedClock{t: at(15, 0)}

	resp, err := uc.Execute(context.Background(), singleServiceRequest())
	require.NoError(t, err)

	// слоты 9:00 и 14:30 уже начались и не коммитятся, даже если кэш
	// доступности их отдал
	require.Equal(t, StateCommitted, resp.State)
	assert.Equal(t, at(15, 30), resp.Appointments[0].Slot.Start)
	require.Len(t, repo.created, 1)
}

func TestExecute_AllSlotsStartedRejectsNoAvailability(t *testing.T) {
	avail := &fakeAvailability{responses: map[int64]*availability.Response{
		10: availResponse(10, spec(10, 30),
			map[int64]*domain.SpecialistProfile{7: profile(7, 0)},
			domain.Candidate{SpecialistID: 7, Slot: slot(9, 0, 30)},
			domain.Candidate{SpecialistID: 7, Slot: slot(14, 30, 30)},
		),
	}}
	uc := newTestUseCase(avail, &fakeConflicts{}, newFakeApptRepo(), nil)
	uc.timeProvider = fixedClock{t: at(15, 0)}

	resp, err := uc.Execute(context.Background(), singleServiceRequest())
	require.NoError(t, err)
	assert.Equal(t, StateRejected, resp.State)
	assert.Equal(t, ReasonNoAvailability, resp.Reason)
}

type countingTxManager struct{ calls int }

func (m *countingTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

func TestExecute_IndependentUniquenessRetriesFreshTransaction(t *testing.T) {
	// разные специалисты на услуги: цепочка невозможна, размещение независимое
	avail := &fakeAvailability{responses: map[int64]*availability.Response{
		10: availResponse(10, spec(10, 30),
			map[int64]*domain.SpecialistProfile{7: profile(7, 0)},
			domain.Candidate{SpecialistID: 7, Slot: slot(9, 0, 30)},
			domain.Candidate{SpecialistID: 7, Slot: slot(10, 0, 30)},
		),
		11: availResponse(11, spec(11, 45),
			map[int64]*domain.SpecialistProfile{8: profile(8, 0)},
			domain.Candidate{SpecialistID: 8, Slot: slot(9, 0, 45)},
		),
	}}
	repo := newFakeApptRepo()
	repo.taken[fmt.Sprintf("%d@%s", 7, at(9, 0).Format(time.RFC3339))] = true

	// в прерванной транзакции продолжать нельзя: после нарушения
	// уникальности вся попытка повторяется в новой, где занятый слот
	// отсеивает предварительная проверка
	conflicts := &fakeConflicts{results: []conflict.Result{
		conflict.NoConflict(),
		conflict.SpecialistConflict(1),
	}}
	tm := &countingTxManager{}
	uc := newTestUseCase(avail, conflicts, repo, nil)
	uc.txManager = tm

	req := singleServiceRequest()
	req.ServiceIDs = []int64{10, 11}

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, StateCommitted, resp.State)
	assert.False(t, resp.Sequenced)
	require.Len(t, resp.Appointments, 2)
	assert.Equal(t, at(10, 0), resp.Appointments[0].Slot.Start)
	assert.Equal(t, int64(8), resp.Appointments[1].SpecialistID)
	assert.Equal(t, 2, tm.calls)
}

func TestExecute_IndependentUniquenessExhaustionRejects(t *testing.T) {
	avail := &fakeAvailability{responses: map[int64]*availability.Response{
		10: availResponse(10, spec(10, 30),
			map[int64]*domain.SpecialistProfile{7: profile(7, 0)},
			domain.Candidate{SpecialistID: 7, Slot: slot(9, 0, 30)},
		),
		11: availResponse(11, spec(11, 45),
			map[int64]*domain.SpecialistProfile{8: profile(8, 0)},
			domain.Candidate{SpecialistID: 8, Slot: slot(9, 0, 45)},
		),
	}}
	repo := newFakeApptRepo()
	repo.taken[fmt.Sprintf("%d@%s", 7, at(9, 0).Format(time.RFC3339))] = true

	tm := &countingTxManager{}
	uc := newTestUseCase(avail, &fakeConflicts{}, repo, nil)
	uc.txManager = tm

	req := singleServiceRequest()
	req.ServiceIDs = []int64{10, 11}

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, StateRejected, resp.State)
	assert.Equal(t, ReasonAllCandidatesConflicted, resp.Reason)
	assert.Equal(t, 3, tm.calls)
}
