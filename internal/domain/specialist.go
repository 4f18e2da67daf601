package domain

// SpecialistProfile is a read-only snapshot of a specialist for one
// scheduling request. CurrentWorkload is computed fresh from the bookings
// source per request, never cached mutable state.
type SpecialistProfile struct {
	ID     int64
	Name   string
	Skills []SkillID

	// WorkingHours for the requested date, already resolved to ranges
	WorkingHours []TimeRange

	// CurrentWorkload is the count of active appointments in a rolling window
	CurrentWorkload int

	// PerformanceScore is in [0, 1]
	PerformanceScore float64

	// CustomerAffinity maps customer ID to a score reflecting past
	// positive interactions. Missing pairings default to neutral 0.5.
	CustomerAffinity map[int64]float64
}

// HasSkills reports whether the specialist holds every required skill.
// Specialists missing any required skill are excluded from candidate
// enumeration entirely (hard filter).
func (p *SpecialistProfile) HasSkills(required []SkillID) bool {
	if len(required) == 0 {
		return true
	}

	owned := make(map[SkillID]struct{}, len(p.Skills))
	for _, s := range p.Skills {
		owned[s] = struct{}{}
	}

	for _, r := range required {
		if _, ok := owned[r]; !ok {
			return false
		}
	}
	return true
}

// AffinityFor returns the customer affinity score, defaulting to the
// neutral value for unknown pairings (not zero)
func (p *SpecialistProfile) AffinityFor(customerID int64) float64 {
	if score, ok := p.CustomerAffinity[customerID]; ok {
		return score
	}
	return NeutralAffinity
}

// SpecialistSelector is the explicit "any specialist" / "this specialist"
// choice for a request. The zero value means any qualified specialist;
// a sentinel ID is never used for the unpinned state.
type SpecialistSelector struct {
	Pinned       bool
	SpecialistID int64
}

// PinnedSpecialist selects exactly one specialist.
func PinnedSpecialist(id int64) SpecialistSelector {
	return SpecialistSelector{Pinned: true, SpecialistID: id}
}

// AnySpecialist selects all qualified specialists.
func AnySpecialist() SpecialistSelector {
	return SpecialistSelector{}
}
