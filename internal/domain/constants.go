package domain

import "time"

// Default scheduling values
const (
	DefaultGridMinutes        = 15
	DefaultPreferredFrom      = "10:00"
	DefaultPreferredTo        = "16:00"
	DefaultMaxOccurrences     = 52
	DefaultCustomIntervalDays = 1
)

// DefaultSeriesEnd end date of a series without explicit end: parent start + 1 year
func DefaultSeriesEnd(start time.Time) time.Time {
	return start.AddDate(1, 0, 0)
}

// Business validation constants
const (
	MinGridMinutes            = 5
	MaxGridMinutes            = 240
	MinServiceDuration        = 5
	MaxServiceDuration        = 480 // 8 hours
	MaxServicesPerAppointment = 10
	MaxNotesLength            = 500
	MaxClientNameLength       = 200
	MaxServiceNameLength      = 200
	MaxRecurrenceOccurrences  = 366
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
