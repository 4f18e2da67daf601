package buffer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/QueueM/QueueMe-SchedulingService/internal/domain"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 12, hour, min, 0, 0, time.UTC)
}

func tr(startHour, startMin, endHour, endMin int) domain.TimeRange {
	return domain.TimeRange{Start: at(startHour, startMin), End: at(endHour, endMin)}
}

func TestEffectiveRange(t *testing.T) {
	svc := &domain.ServiceSpec{BufferBeforeMinutes: 10, BufferAfterMinutes: 15}

	got := EffectiveRange(tr(10, 0, 10, 30), svc)
	assert.True(t, got.Equal(tr(9, 50, 10, 45)))
}

func TestEffectiveRange_NoBuffers(t *testing.T) {
	svc := &domain.ServiceSpec{}

	got := EffectiveRange(tr(10, 0, 10, 30), svc)
	assert.True(t, got.Equal(tr(10, 0, 10, 30)))
}

func TestOccupiedRanges_SkipsInactive(t *testing.T) {
	bookings := []*domain.ExistingBooking{
		{Slot: tr(10, 0, 10, 30), BufferAfterMinutes: 15, Status: domain.StatusConfirmed},
		{Slot: tr(12, 0, 12, 30), Status: domain.StatusCancelledByUser},
		{Slot: tr(14, 0, 14, 30), Status: domain.StatusNoShow},
	}

	got := OccupiedRanges(bookings)
	require.Len(t, got, 1)
	assert.True(t, got[0].Equal(tr(10, 0, 10, 45)))
}

func TestResolveBufferConflict_NoOverlap(t *testing.T) {
	svcA := &domain.ServiceSpec{BufferAfterMinutes: 10}
	svcB := &domain.ServiceSpec{BufferBeforeMinutes: 5}

	// A ends 10:30, effective end 10:40; B starts 11:00, effective start 10:55
	res := ResolveBufferConflict(tr(10, 0, 10, 30), tr(11, 0, 11, 30), svcA, svcB)
	assert.True(t, res.OK)
	assert.Equal(t, ShiftNone, res.Direction)
}

func TestResolveBufferConflict_AdjacentBuffersOverlap(t *testing.T) {
	svcA := &domain.ServiceSpec{BufferAfterMinutes: 15}
	svcB := &domain.ServiceSpec{BufferBeforeMinutes: 10}

	// slots touch at 10:30: A effective end 10:45, B effective start 10:20
	res := ResolveBufferConflict(tr(10, 0, 10, 30), tr(10, 30, 11, 0), svcA, svcB)
	require.False(t, res.OK)
	assert.Equal(t, ShiftLater, res.Direction)
	assert.Equal(t, 25, res.ShiftRequiredMinutes)
}

func TestResolveBufferConflict_ArgumentOrderIndependent(t *testing.T) {
	svcA := &domain.ServiceSpec{BufferAfterMinutes: 15}
	svcB := &domain.ServiceSpec{BufferBeforeMinutes: 10}

	// same conflict with arguments swapped: the later slot is now rangeA
	res := ResolveBufferConflict(tr(10, 30, 11, 0), tr(10, 0, 10, 30), svcB, svcA)
	require.False(t, res.OK)
	assert.Equal(t, ShiftEarlier, res.Direction)
	assert.Equal(t, 25, res.ShiftRequiredMinutes)
}

func TestResolveBufferConflict_TouchingEffectiveRangesIsOK(t *testing.T) {
	svcA := &domain.ServiceSpec{BufferAfterMinutes: 15}
	svcB := &domain.ServiceSpec{BufferBeforeMinutes: 15}

	// A effective end 10:45, B effective start 10:45: touching, not overlap
	res := ResolveBufferConflict(tr(10, 0, 10, 30), tr(11, 0, 11, 30), svcA, svcB)
	assert.True(t, res.OK)
}
