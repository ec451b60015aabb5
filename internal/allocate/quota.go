package allocate

// Quota holds the soft per-day caps for the function-quota allocator.
type Quota struct {
	CoreMin     int
	CoreMax     int
	ActivityMax int
	ResortMax   int
	FBMax       int
}

// QuotaForDuration returns the dynamic quota table keyed by trip
// length.
func QuotaForDuration(durationDays int) Quota {
	switch {
	case durationDays <= 1:
		return Quota{CoreMin: 2, CoreMax: 3, ActivityMax: 1, ResortMax: 1, FBMax: 1}
	case durationDays <= 3:
		return Quota{CoreMin: 2, CoreMax: 3, ActivityMax: 2, ResortMax: 1, FBMax: 1}
	default:
		return Quota{CoreMin: 2, CoreMax: 2, ActivityMax: 1, ResortMax: 1, FBMax: 1}
	}
}
