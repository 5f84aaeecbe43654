package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentState_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to AppointmentState
		want     bool
	}{
		{StatePending, StateConfirmed, true},
		{StatePending, StateCompleted, true},
		{StatePending, StateCanceled, true},
		{StateConfirmed, StateCompleted, true},
		{StateConfirmed, StateCanceled, true},
		{StateConfirmed, StatePending, false},
		{StatePending, StatePending, false},
		{StateCompleted, StateCanceled, false},
		{StateCanceled, StatePending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestParseAppointmentState(t *testing.T) {
	s, err := ParseAppointmentState(" confirmed ")
	require.NoError(t, err)
	assert.Equal(t, StateConfirmed, s)

	_, err = ParseAppointmentState("archived")
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestAppointment_Validate(t *testing.T) {
	start := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	lines := []ServiceLine{
		{ServiceID: 1, DurationMinutes: 30, Price: decimal.NewFromInt(20)},
		{ServiceID: 2, DurationMinutes: 15, Price: decimal.NewFromInt(10)},
	}

	ok := &Appointment{Services: lines, StartAt: start, EndAt: start.Add(45 * time.Minute)}
	assert.NoError(t, ok.Validate())
	assert.True(t, TotalPrice(lines).Equal(decimal.NewFromInt(30)))

	wrongLength := &Appointment{Services: lines, StartAt: start, EndAt: start.Add(30 * time.Minute)}
	assert.ErrorIs(t, wrongLength.Validate(), ErrBadRequest)

	parent := int64(7)
	childWithRule := &Appointment{
		Services:   lines,
		StartAt:    start,
		EndAt:      start.Add(45 * time.Minute),
		ParentID:   &parent,
		Recurrence: &RecurrenceRule{Pattern: PatternDaily},
	}
	assert.ErrorIs(t, childWithRule.Validate(), ErrBadRequest)
}

func TestWeekdayOf(t *testing.T) {
	monday := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, Monday, WeekdayOf(monday))
	assert.Equal(t, Sunday, WeekdayOf(monday.AddDate(0, 0, 6)))
	assert.Equal(t, time.Wednesday, Wednesday.Std())
}

func TestRecurrenceRule_Validate(t *testing.T) {
	zero := 0
	tests := []struct {
		name    string
		rule    RecurrenceRule
		wantErr bool
	}{
		{name: "weekly with weekdays", rule: RecurrenceRule{Pattern: PatternWeekly, Weekdays: []Weekday{Monday, Wednesday}}},
		{name: "weekdays on daily", rule: RecurrenceRule{Pattern: PatternDaily, Weekdays: []Weekday{Monday}}, wantErr: true},
		{name: "bad weekday", rule: RecurrenceRule{Pattern: PatternWeekly, Weekdays: []Weekday{9}}, wantErr: true},
		{name: "zero occurrences", rule: RecurrenceRule{Pattern: PatternDaily, MaxOccurrences: &zero}, wantErr: true},
		{name: "unknown pattern", rule: RecurrenceRule{Pattern: "YEARLY"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadRequest)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPlanLimits(t *testing.T) {
	plan := PlanLimits{Tier: "basic", MaxClients: 50, MaxServices: Unlimited, SMSWhatsApp: false, AdvancedReports: true}

	limit, err := plan.Limit(ResourceClients)
	require.NoError(t, err)
	assert.Equal(t, 50, limit)

	_, err = plan.Limit("rooms")
	assert.ErrorIs(t, err, ErrConfiguration)

	has, err := plan.HasFeature(FeatureAdvancedReports)
	require.NoError(t, err)
	assert.True(t, has)

	_, err = plan.HasFeature("video_calls")
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestTypedErrors(t *testing.T) {
	quota := &QuotaExceededError{Kind: ResourceAppointmentsThisMonth, Current: 100, Limit: 100}
	assert.True(t, errors.Is(quota, ErrQuotaExceeded))
	assert.Equal(t, "monthly appointments limit of 100 reached (current 100)", quota.Error())

	start := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	conflict := NewConflictError(&Appointment{ID: 3, StartAt: start, EndAt: start.Add(30 * time.Minute)})
	assert.True(t, errors.Is(conflict, ErrConflict))
	assert.Equal(t, "conflicts with an existing appointment from 10:00-10:30", conflict.Error())
}
