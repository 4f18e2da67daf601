package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	// ErrInvalidRange is returned for zero-length or inverted time ranges
	ErrInvalidRange = errors.New("domain: invalid time range")

	// ErrInvalidDuration is returned when a slot duration or granularity is not positive
	ErrInvalidDuration = errors.New("domain: duration and granularity must be positive")
)

// TimeRange is an immutable half-open interval [Start, End).
// Touching endpoints do not count as overlap.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange creates a TimeRange, rejecting zero-length and inverted ranges
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if !start.Before(end) {
		return TimeRange{}, fmt.Errorf("%w: start %s is not before end %s",
			ErrInvalidRange, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return TimeRange{Start: start, End: end}, nil
}

// IsZero returns true for the zero value
func (r TimeRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Duration returns the length of the range
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Overlaps reports whether two half-open ranges share any instant.
// Strict inequalities: ranges that merely touch are not overlapping.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Contains reports whether other lies entirely within r
func (r TimeRange) Contains(other TimeRange) bool {
	return !other.Start.Before(r.Start) && !other.End.After(r.End)
}

// Equal reports whether two ranges have identical endpoints
func (r TimeRange) Equal(other TimeRange) bool {
	return r.Start.Equal(other.Start) && r.End.Equal(other.End)
}

// Intersect returns the overlapping sub-range of a and b.
// The second return value is false when the ranges are disjoint or touching.
func Intersect(a, b TimeRange) (TimeRange, bool) {
	if !a.Overlaps(b) {
		return TimeRange{}, false
	}

	start := a.Start
	if b.Start.After(start) {
		start = b.Start
	}
	end := a.End
	if b.End.Before(end) {
		end = b.End
	}

	return TimeRange{Start: start, End: end}, true
}

// Coalesce merges overlapping and touching ranges within one set, so that
// downstream operations never double-count an instant. The input is not modified.
func Coalesce(ranges []TimeRange) []TimeRange {
	if len(ranges) == 0 {
		return nil
	}

	sorted := make([]TimeRange, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start.Equal(sorted[j].Start) {
			return sorted[i].End.Before(sorted[j].End)
		}
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := []TimeRange{sorted[0]}
	for _, r := range sorted[1:] {
		last := &merged[len(merged)-1]
		// Touching ranges merge too: [a,b) + [b,c) is the same availability as [a,c)
		if !r.Start.After(last.End) {
			if r.End.After(last.End) {
				last.End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}

	return merged
}

// IntersectSets intersects two sets of ranges. Each set is coalesced first.
// The result may be empty, one, or many disjoint ranges.
func IntersectSets(a, b []TimeRange) []TimeRange {
	a = Coalesce(a)
	b = Coalesce(b)

	var out []TimeRange
	for _, ra := range a {
		for _, rb := range b {
			if r, ok := Intersect(ra, rb); ok {
				out = append(out, r)
			}
		}
	}

	return Coalesce(out)
}

// IntersectAll intersects N independent sets of ranges
// (e.g. shop hours, service window, specialist hours)
func IntersectAll(sets ...[]TimeRange) []TimeRange {
	if len(sets) == 0 {
		return nil
	}

	result := Coalesce(sets[0])
	for _, set := range sets[1:] {
		result = IntersectSets(result, set)
		if len(result) == 0 {
			return nil
		}
	}

	return result
}

// Subtract removes occupied intervals from base availability.
// Both inputs are coalesced; the result is sorted and disjoint.
func Subtract(base, occupied []TimeRange) []TimeRange {
	base = Coalesce(base)
	occupied = Coalesce(occupied)

	if len(occupied) == 0 {
		return base
	}

	var out []TimeRange
	for _, b := range base {
		remaining := []TimeRange{b}
		for _, o := range occupied {
			var next []TimeRange
			for _, r := range remaining {
				next = append(next, subtractOne(r, o)...)
			}
			remaining = next
		}
		out = append(out, remaining...)
	}

	return out
}

// subtractOne removes o from r, yielding zero, one or two remaining ranges
func subtractOne(r, o TimeRange) []TimeRange {
	if !r.Overlaps(o) {
		return []TimeRange{r}
	}

	var out []TimeRange
	if o.Start.After(r.Start) {
		out = append(out, TimeRange{Start: r.Start, End: o.Start})
	}
	if o.End.Before(r.End) {
		out = append(out, TimeRange{Start: o.End, End: r.End})
	}
	return out
}

// GenerateSlots emits, within each available range, all sub-ranges of length
// duration whose start offsets are multiples of granularity from the range
// start and that fit entirely within the range. Output is ordered ascending
// by start time, then by source range order, and is deterministic for a given
// input (calling twice yields identical results).
func GenerateSlots(available []TimeRange, duration, granularity time.Duration) ([]TimeRange, error) {
	if duration <= 0 || granularity <= 0 {
		return nil, fmt.Errorf("%w: duration=%s granularity=%s", ErrInvalidDuration, duration, granularity)
	}

	available = Coalesce(available)

	var slots []TimeRange
	for _, r := range available {
		slots = appendSlots(slots, r, r.Start, duration, granularity)
	}

	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Start.Before(slots[j].Start)
	})

	return slots, nil
}

// GenerateSlotsAligned is GenerateSlots with slot starts aligned to a grid
// anchored at anchor instead of each range's own start. Availability uses the
// start of the shop's operating window as the anchor, so slot starts stay on
// the same grid even after occupied time is subtracted.
func GenerateSlotsAligned(available []TimeRange, duration, granularity time.Duration, anchor time.Time) ([]TimeRange, error) {
	if duration <= 0 || granularity <= 0 {
		return nil, fmt.Errorf("%w: duration=%s granularity=%s", ErrInvalidDuration, duration, granularity)
	}

	available = Coalesce(available)

	var slots []TimeRange
	for _, r := range available {
		slots = appendSlots(slots, r, alignUp(r.Start, anchor, granularity), duration, granularity)
	}

	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Start.Before(slots[j].Start)
	})

	return slots, nil
}

// appendSlots walks the grid from first, emitting slots that fit within r
func appendSlots(slots []TimeRange, r TimeRange, first time.Time, duration, granularity time.Duration) []TimeRange {
	for start := first; !start.Add(duration).After(r.End); start = start.Add(granularity) {
		if start.Before(r.Start) {
			continue
		}
		slots = append(slots, TimeRange{Start: start, End: start.Add(duration)})
	}
	return slots
}

// alignUp rounds t up to the next grid point at a multiple of granularity
// from anchor. Grid points before the anchor stay on the same grid.
func alignUp(t, anchor time.Time, granularity time.Duration) time.Time {
	offset := t.Sub(anchor)
	steps := offset / granularity
	aligned := anchor.Add(steps * granularity)
	if aligned.Before(t) {
		aligned = aligned.Add(granularity)
	}
	return aligned
}
