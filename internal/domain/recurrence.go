package domain

import (
	"fmt"
	"strings"
	"time"
)

// RecurrencePattern how often a series repeats
type RecurrencePattern string

const (
	PatternDaily     RecurrencePattern = "DAILY"
	PatternWeekly    RecurrencePattern = "WEEKLY"
	PatternBiweekly  RecurrencePattern = "BIWEEKLY"
	PatternMonthly   RecurrencePattern = "MONTHLY"
	PatternQuarterly RecurrencePattern = "QUARTERLY"
	PatternCustom    RecurrencePattern = "CUSTOM"
)

// ParseRecurrencePattern case-insensitive parsing
func ParseRecurrencePattern(s string) (RecurrencePattern, error) {
	p := RecurrencePattern(strings.ToUpper(strings.TrimSpace(s)))
	switch p {
	case PatternDaily, PatternWeekly, PatternBiweekly, PatternMonthly, PatternQuarterly, PatternCustom:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown recurrence pattern %q", ErrBadRequest, s)
	}
}

// RecurrenceRule describes how a parent appointment repeats.
// Termination happens at MaxOccurrences or EndDate, whichever comes first.
type RecurrenceRule struct {
	Pattern        RecurrencePattern
	Weekdays       []Weekday  // WEEKLY only, empty = same weekday every 7 days
	IntervalDays   int        // CUSTOM only, <= 0 means 1
	MaxOccurrences *int       // nil = DefaultMaxOccurrences
	EndDate        *time.Time // nil = DefaultSeriesEnd(parent start)
}

// Validate checks rule consistency
func (r *RecurrenceRule) Validate() error {
	if _, err := ParseRecurrencePattern(string(r.Pattern)); err != nil {
		return err
	}
	if len(r.Weekdays) > 0 && r.Pattern != PatternWeekly {
		return fmt.Errorf("%w: weekdays are only allowed for WEEKLY recurrence", ErrBadRequest)
	}
	for _, d := range r.Weekdays {
		if !d.IsValid() {
			return fmt.Errorf("%w: invalid weekday %d", ErrBadRequest, d)
		}
	}
	if r.IntervalDays < 0 {
		return fmt.Errorf("%w: recurrence interval must not be negative", ErrBadRequest)
	}
	if r.MaxOccurrences != nil && *r.MaxOccurrences <= 0 {
		return fmt.Errorf("%w: max occurrences must be positive", ErrBadRequest)
	}
	return nil
}

// Weekday 0=Monday..6=Sunday
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// WeekdayOf converts time.Weekday (Sunday=0) to Weekday (Monday=0)
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

func (d Weekday) IsValid() bool {
	return d >= Monday && d <= Sunday
}

// Std converts back to time.Weekday
func (d Weekday) Std() time.Weekday {
	return time.Weekday((int(d) + 1) % 7)
}

func (d Weekday) String() string {
	if !d.IsValid() {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return d.Std().String()
}
