package domain

import "time"

// AvailableSlot a bookable start time for a given aggregate duration
type AvailableSlot struct {
	Start       time.Time
	End         time.Time
	Recommended bool // falls inside the preferred window
}
