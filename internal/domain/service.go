package domain

import (
	"fmt"
	"time"
)

// SkillID identifies a skill a service may require and a specialist may hold
type SkillID int64

// ServiceSpec describes the scheduling parameters of a bookable service
type ServiceSpec struct {
	ID   int64
	Name string

	DurationMinutes        int
	BufferBeforeMinutes    int
	BufferAfterMinutes     int
	SlotGranularityMinutes int

	RequiredSkills []SkillID

	// Capacity is the number of concurrent bookings allowed for one
	// service occurrence (group services). Default 1.
	Capacity int
}

// Duration returns the bookable slot length
func (s *ServiceSpec) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// Granularity returns the step between candidate slot start times
func (s *ServiceSpec) Granularity() time.Duration {
	if s.SlotGranularityMinutes <= 0 {
		return time.Duration(DefaultSlotGranularityMinutes) * time.Minute
	}
	return time.Duration(s.SlotGranularityMinutes) * time.Minute
}

// EffectiveCapacity returns the capacity, defaulting to 1 when unset
func (s *ServiceSpec) EffectiveCapacity() int {
	if s.Capacity <= 0 {
		return 1
	}
	return s.Capacity
}

// IsGroupService returns true when more than one concurrent booking is allowed
func (s *ServiceSpec) IsGroupService() bool {
	return s.EffectiveCapacity() > 1
}

// Validate fails fast on misconfigured services. A service with a
// non-positive duration is a programmer/configuration error, never
// silently coerced.
func (s *ServiceSpec) Validate() error {
	if s.DurationMinutes <= 0 {
		return fmt.Errorf("%w: service id=%d has duration %d minutes", ErrInvalidServiceSpec, s.ID, s.DurationMinutes)
	}
	if s.BufferBeforeMinutes < 0 || s.BufferAfterMinutes < 0 {
		return fmt.Errorf("%w: service id=%d has negative buffer", ErrInvalidServiceSpec, s.ID)
	}
	if s.SlotGranularityMinutes < 0 {
		return fmt.Errorf("%w: service id=%d has negative slot granularity", ErrInvalidServiceSpec, s.ID)
	}
	return nil
}
