package scheduling

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ErrNoRecurrence у родительской записи нет правила повторения
var ErrNoRecurrence = errors.New("scheduling: appointment has no recurrence rule")

// cursor walks the occurrences of a rule starting from the parent start.
// MONTHLY and QUARTERLY are computed from the anchor so that a series
// starting on the 31st stays on the last day of shorter months instead of drifting.
type cursor struct {
	rule    *domain.RecurrenceRule
	anchor  time.Time
	current time.Time
	step    int
}

func newCursor(rule *domain.RecurrenceRule, anchor time.Time) *cursor {
	return &cursor{rule: rule, anchor: anchor, current: anchor}
}

func (c *cursor) next() time.Time {
	c.step++
	switch c.rule.Pattern {
	case domain.PatternDaily:
		c.current = c.current.AddDate(0, 0, 1)
	case domain.PatternWeekly:
		c.current = NextWeekly(c.current, c.rule.Weekdays)
	case domain.PatternBiweekly:
		c.current = c.current.AddDate(0, 0, 14)
	case domain.PatternMonthly:
		c.current = AddMonthsClamped(c.anchor, c.step)
	case domain.PatternQuarterly:
		c.current = AddMonthsClamped(c.anchor, 3*c.step)
	case domain.PatternCustom:
		interval := c.rule.IntervalDays
		if interval <= 0 {
			interval = domain.DefaultCustomIntervalDays
		}
		c.current = c.current.AddDate(0, 0, interval)
	default:
		c.current = c.current.AddDate(0, 0, 1)
	}
	return c.current
}

// NextWeekly returns the next date after from that falls on one of weekdays.
// With an empty set it is simply from + 7 days.
func NextWeekly(from time.Time, weekdays []domain.Weekday) time.Time {
	if len(weekdays) == 0 {
		return from.AddDate(0, 0, 7)
	}

	allowed := make(map[domain.Weekday]struct{}, len(weekdays))
	for _, d := range weekdays {
		allowed[d] = struct{}{}
	}

	candidate := from
	for probe := 0; probe < 7; probe++ {
		candidate = candidate.AddDate(0, 0, 1)
		if _, ok := allowed[domain.WeekdayOf(candidate)]; ok {
			return candidate
		}
	}
	// only reachable with invalid weekdays, rejected by RecurrenceRule.Validate
	return from.AddDate(0, 0, 7)
}

// AddMonthsClamped adds months keeping the day of month, clamped to the last day
// of the target month. Time of day and location are preserved.
func AddMonthsClamped(t time.Time, months int) time.Time {
	firstOfTarget := time.Date(t.Year(), t.Month()+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()

	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// ExpandSeries generates the children of a recurring parent in ascending order.
// The loop stops at the occurrence cap or when a computed date passes the end date,
// whichever comes first. Children inherit client, services, duration, price and notes,
// start PENDING and carry no rule of their own.
//
// Сдвиг выполняется в локации StartAt родителя: вызывающий код переводит время
// в часовой пояс арендатора, чтобы время суток не плыло при переходе на летнее время.
func ExpandSeries(parent *domain.Appointment) ([]*domain.Appointment, error) {
	if parent == nil || parent.Recurrence == nil {
		return nil, ErrNoRecurrence
	}
	rule := parent.Recurrence
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	maxOccurrences := domain.DefaultMaxOccurrences
	if rule.MaxOccurrences != nil {
		maxOccurrences = *rule.MaxOccurrences
	}

	// дата окончания - календарная дата, в другой пояс её не переводим
	lastDay := domain.DateOnly(domain.DefaultSeriesEnd(parent.StartAt))
	if rule.EndDate != nil {
		y, m, d := rule.EndDate.Date()
		lastDay = time.Date(y, m, d, 0, 0, 0, 0, parent.StartAt.Location())
	}

	duration := parent.EndAt.Sub(parent.StartAt)
	c := newCursor(rule, parent.StartAt)

	children := make([]*domain.Appointment, 0, maxOccurrences)
	for len(children) < maxOccurrences {
		start := c.next()
		if domain.DateOnly(start).After(lastDay) {
			break
		}
		children = append(children, newChild(parent, start, duration))
	}

	return children, nil
}

func newChild(parent *domain.Appointment, start time.Time, duration time.Duration) *domain.Appointment {
	services := make([]domain.ServiceLine, len(parent.Services))
	copy(services, parent.Services)

	var notes *string
	if parent.Notes != nil {
		n := *parent.Notes
		notes = &n
	}

	parentID := parent.ID
	return &domain.Appointment{
		TenantID:    parent.TenantID,
		ClientID:    parent.ClientID,
		Services:    services,
		StartAt:     start,
		EndAt:       start.Add(duration),
		State:       domain.StatePending,
		Notes:       notes,
		Price:       parent.Price,
		IsRecurring: false,
		ParentID:    &parentID,
	}
}
