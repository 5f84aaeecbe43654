package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// WorkingHours opening hours of a tenant for one weekday
type WorkingHours struct {
	ID        int64
	TenantID  int64
	Weekday   Weekday
	OpenTime  types.TimeString
	CloseTime types.TimeString
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOpen returns true if the entry makes the day bookable
func (w *WorkingHours) IsOpen() bool {
	return w != nil && w.Active && !w.OpenTime.IsZero() && !w.CloseTime.IsZero()
}

// Window returns the working window on the given date
func (w *WorkingHours) Window(date time.Time, loc *time.Location) (time.Time, time.Time, error) {
	open, err := w.OpenTime.On(date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	closeAt, err := w.CloseTime.On(date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return open, closeAt, nil
}

// DayOff a calendar date on which the tenant takes no bookings
type DayOff struct {
	ID        int64
	TenantID  int64
	Date      time.Time
	Reason    *string
	CreatedAt time.Time
}

// DateOnly truncates t to midnight in its own location
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDate returns true when both instants fall on the same calendar date
func SameDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
