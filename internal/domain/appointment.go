package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AppointmentState represents the lifecycle state of an appointment
type AppointmentState string

const (
	StatePending   AppointmentState = "PENDING"
	StateConfirmed AppointmentState = "CONFIRMED"
	StateCompleted AppointmentState = "COMPLETED"
	StateCanceled  AppointmentState = "CANCELED"
)

// stateRank порядок "вперёд" для не-отменённых состояний
var stateRank = map[AppointmentState]int{
	StatePending:   0,
	StateConfirmed: 1,
	StateCompleted: 2,
}

// ParseAppointmentState converts a user supplied string into a state (case-insensitive)
func ParseAppointmentState(s string) (AppointmentState, error) {
	state := AppointmentState(strings.ToUpper(strings.TrimSpace(s)))
	switch state {
	case StatePending, StateConfirmed, StateCompleted, StateCanceled:
		return state, nil
	default:
		return "", fmt.Errorf("%w: invalid appointment state %q", ErrBadRequest, s)
	}
}

// IsTerminal returns true for COMPLETED and CANCELED
func (s AppointmentState) IsTerminal() bool {
	return s == StateCompleted || s == StateCanceled
}

// CanTransitionTo reports whether the state may move to next.
// Transitions go strictly forward; cancellation is reachable from any non-terminal state.
func (s AppointmentState) CanTransitionTo(next AppointmentState) bool {
	if s.IsTerminal() {
		return false
	}
	if next == StateCanceled {
		return true
	}
	from, okFrom := stateRank[s]
	to, okTo := stateRank[next]
	return okFrom && okTo && to > from
}

// ServiceLine is a service booked as part of an appointment.
// Duration and price are captured at booking time.
type ServiceLine struct {
	ServiceID       int64
	Name            string
	DurationMinutes int
	Price           decimal.Decimal
}

// Appointment represents one scheduled occupation of a tenant's calendar
type Appointment struct {
	ID       int64
	TenantID int64
	ClientID int64
	Services []ServiceLine
	StartAt  time.Time
	EndAt    time.Time
	State    AppointmentState
	Notes    *string
	Price    decimal.Decimal

	IsRecurring bool
	Recurrence  *RecurrenceRule // only on a series parent
	ParentID    *int64          // only on generated children

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment occupies the calendar
func (a *Appointment) IsActive() bool {
	return a.State != StateCanceled
}

// IsChild returns true for appointments generated from a recurrence rule
func (a *Appointment) IsChild() bool {
	return a.ParentID != nil
}

// TotalDurationMinutes sums service line durations
func (a *Appointment) TotalDurationMinutes() int {
	return TotalDuration(a.Services)
}

// OverlapsRange checks strict half-open overlap with [start, end)
func (a *Appointment) OverlapsRange(start, end time.Time) bool {
	return start.Before(a.EndAt) && end.After(a.StartAt)
}

// Validate checks the time-range invariants
func (a *Appointment) Validate() error {
	if len(a.Services) == 0 {
		return fmt.Errorf("%w: appointment must contain at least one service", ErrBadRequest)
	}
	if !a.EndAt.After(a.StartAt) {
		return fmt.Errorf("%w: appointment end must be after start", ErrBadRequest)
	}
	if got, want := a.EndAt.Sub(a.StartAt), time.Duration(a.TotalDurationMinutes())*time.Minute; got != want {
		return fmt.Errorf("%w: appointment length %s does not match services duration %s", ErrBadRequest, got, want)
	}
	if a.Recurrence != nil && a.ParentID != nil {
		return fmt.Errorf("%w: a generated series child cannot carry a recurrence rule", ErrBadRequest)
	}
	return nil
}

// TotalDuration sums durations of service lines
func TotalDuration(lines []ServiceLine) int {
	total := 0
	for _, l := range lines {
		total += l.DurationMinutes
	}
	return total
}

// TotalPrice sums prices of service lines
func TotalPrice(lines []ServiceLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Price)
	}
	return total
}

// AppointmentPatch partial update of a single appointment
type AppointmentPatch struct {
	ClientID   *int64
	ServiceIDs []int64 // nil = keep current services
	StartAt    *time.Time
	Notes      *string
	Price      *decimal.Decimal
}

// ChangesSchedule true if the patch moves or resizes the appointment
func (p AppointmentPatch) ChangesSchedule() bool {
	return p.StartAt != nil || p.ServiceIDs != nil
}

// SeriesPatch partial update applied to the future children of a series
type SeriesPatch struct {
	Notes *string
	Price *decimal.Decimal
	State *AppointmentState
}

// IsEmpty returns true when the patch changes nothing
func (p SeriesPatch) IsEmpty() bool {
	return p.Notes == nil && p.Price == nil && p.State == nil
}

// AppointmentsFilter filter for listing appointments of a tenant
type AppointmentsFilter struct {
	TenantID        int64      // Обязательный параметр
	From            *time.Time // начало периода, включительно
	To              *time.Time // конец периода, не включительно
	ClientID        *int64
	State           *AppointmentState
	IncludeCanceled bool
}
