// Package scheduling contains the pure calendar algorithms: interval overlap,
// slot generation over a working window and recurrence expansion.
// Nothing here touches storage; callers pass in the day's snapshot.
package scheduling

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Overlaps checks strict half-open overlap of [s1, e1) and [s2, e2).
// Touching endpoints (e1 == s2) do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && e1.After(s2)
}

// FindConflict returns the earliest active appointment overlapping [start, end),
// ignoring the appointment with excludeID. Returns nil when the range is free.
func FindConflict(start, end time.Time, existing []*domain.Appointment, excludeID *int64) *domain.Appointment {
	var found *domain.Appointment
	for _, a := range existing {
		if a == nil || !a.IsActive() {
			continue
		}
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		if !Overlaps(start, end, a.StartAt, a.EndAt) {
			continue
		}
		if found == nil || a.StartAt.Before(found.StartAt) {
			found = a
		}
	}
	return found
}

// HasConflict reports whether [start, end) overlaps any active appointment
func HasConflict(start, end time.Time, existing []*domain.Appointment, excludeID *int64) bool {
	return FindConflict(start, end, existing, excludeID) != nil
}
