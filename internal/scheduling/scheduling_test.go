package scheduling

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// 2 марта 2026 - понедельник
var monday = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

func booking(id int64, start, end time.Time, state domain.AppointmentState) *domain.Appointment {
	return &domain.Appointment{ID: id, TenantID: 1, StartAt: start, EndAt: end, State: state}
}

func hours(open, closeAt string) *domain.WorkingHours {
	return &domain.WorkingHours{
		TenantID:  1,
		Weekday:   domain.Monday,
		OpenTime:  types.TimeString(open),
		CloseTime: types.TimeString(closeAt),
		Active:    true,
	}
}

func TestOverlaps(t *testing.T) {
	s := at(monday, 10, 0)
	e := at(monday, 11, 0)

	tests := []struct {
		name     string
		s2, e2   time.Time
		expected bool
	}{
		{name: "touching before", s2: at(monday, 9, 0), e2: s, expected: false},
		{name: "touching after", s2: e, e2: at(monday, 12, 0), expected: false},
		{name: "inside", s2: at(monday, 10, 15), e2: at(monday, 10, 45), expected: true},
		{name: "covering", s2: at(monday, 9, 0), e2: at(monday, 12, 0), expected: true},
		{name: "partial head", s2: at(monday, 9, 30), e2: at(monday, 10, 30), expected: true},
		{name: "identical", s2: s, e2: e, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Overlaps(s, e, tt.s2, tt.e2))
			// симметрия
			assert.Equal(t, tt.expected, Overlaps(tt.s2, tt.e2, s, e))
		})
	}
}

func TestFindConflict(t *testing.T) {
	existing := []*domain.Appointment{
		booking(1, at(monday, 9, 0), at(monday, 9, 30), domain.StateConfirmed),
		booking(2, at(monday, 10, 0), at(monday, 10, 30), domain.StatePending),
		booking(3, at(monday, 11, 0), at(monday, 12, 0), domain.StateCanceled),
	}

	t.Run("reports the earliest overlapping booking", func(t *testing.T) {
		got := FindConflict(at(monday, 9, 15), at(monday, 10, 15), existing, nil)
		require.NotNil(t, got)
		assert.Equal(t, int64(1), got.ID)
	})

	t.Run("canceled bookings do not block", func(t *testing.T) {
		assert.False(t, HasConflict(at(monday, 11, 0), at(monday, 12, 0), existing, nil))
	})

	t.Run("excluded booking does not conflict with itself", func(t *testing.T) {
		id := int64(2)
		assert.False(t, HasConflict(at(monday, 10, 0), at(monday, 10, 45), existing, &id))
		assert.True(t, HasConflict(at(monday, 10, 0), at(monday, 10, 45), existing, nil))
	})

	t.Run("empty day", func(t *testing.T) {
		assert.Nil(t, FindConflict(at(monday, 10, 0), at(monday, 11, 0), nil, nil))
	})
}

func TestGenerateSlots_EndToEnd(t *testing.T) {
	day := Day{
		Date:         monday,
		WorkingHours: hours("09:00", "12:00"),
		Appointments: []*domain.Appointment{
			booking(1, at(monday, 10, 0), at(monday, 11, 0), domain.StateConfirmed),
		},
	}

	slots, err := GenerateSlots(day, 60, SlotOptions{GridMinutes: 60})
	require.NoError(t, err)

	require.Len(t, slots, 2)
	assert.Equal(t, at(monday, 9, 0), slots[0].Start)
	assert.Equal(t, at(monday, 10, 0), slots[0].End)
	// close - duration включается в обход
	assert.Equal(t, at(monday, 11, 0), slots[1].Start)
	assert.Equal(t, at(monday, 12, 0), slots[1].End)
}

func TestGenerateSlots_Completeness(t *testing.T) {
	day := Day{Date: monday, WorkingHours: hours("09:00", "17:00")}

	tests := []struct {
		duration int
		count    int
		last     time.Time
	}{
		{duration: 30, count: 31, last: at(monday, 16, 30)},
		{duration: 60, count: 29, last: at(monday, 16, 0)},
		{duration: 480, count: 1, last: at(monday, 9, 0)},
	}

	for _, tt := range tests {
		slots, err := GenerateSlots(day, tt.duration, SlotOptions{GridMinutes: 15})
		require.NoError(t, err)

		require.Len(t, slots, tt.count, "duration %d", tt.duration)
		assert.Equal(t, at(monday, 9, 0), slots[0].Start)
		assert.Equal(t, tt.last, slots[len(slots)-1].Start)
	}
}

func TestGenerateSlots_Soundness(t *testing.T) {
	existing := []*domain.Appointment{
		booking(1, at(monday, 9, 30), at(monday, 10, 15), domain.StateConfirmed),
		booking(2, at(monday, 13, 0), at(monday, 14, 0), domain.StatePending),
		booking(3, at(monday, 15, 0), at(monday, 16, 0), domain.StateCanceled),
	}
	day := Day{Date: monday, WorkingHours: hours("09:00", "17:00"), Appointments: existing}

	slots, err := GenerateSlots(day, 45, SlotOptions{GridMinutes: 15})
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	closeAt := at(monday, 17, 0)
	for i, slot := range slots {
		assert.False(t, HasConflict(slot.Start, slot.End, existing, nil), "slot %s overlaps", slot.Start)
		assert.False(t, slot.End.After(closeAt))
		assert.Equal(t, 45*time.Minute, slot.End.Sub(slot.Start))
		if i > 0 {
			assert.True(t, slot.Start.After(slots[i-1].Start))
		}
	}

	// отменённая запись 15:00-16:00 не блокирует
	assert.Contains(t, starts(slots), at(monday, 15, 0))
}

func TestGenerateSlots_ClosedDays(t *testing.T) {
	inactive := hours("09:00", "17:00")
	inactive.Active = false

	tests := []struct {
		name string
		day  Day
	}{
		{name: "day off", day: Day{Date: monday, DayOff: true, WorkingHours: hours("09:00", "17:00")}},
		{name: "no working hours", day: Day{Date: monday}},
		{name: "inactive working hours", day: Day{Date: monday, WorkingHours: inactive}},
		{name: "service longer than window", day: Day{Date: monday, WorkingHours: hours("09:00", "09:30")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots, err := GenerateSlots(tt.day, 60, SlotOptions{GridMinutes: 15})
			require.NoError(t, err)
			assert.NotNil(t, slots)
			assert.Empty(t, slots)
		})
	}
}

func TestGenerateSlots_Recommended(t *testing.T) {
	day := Day{Date: monday, WorkingHours: hours("09:00", "18:00")}

	slots, err := GenerateSlots(day, 60, SlotOptions{
		GridMinutes:   60,
		PreferredFrom: "10:00",
		PreferredTo:   "16:00",
	})
	require.NoError(t, err)

	recommended := make(map[int]bool)
	for _, s := range slots {
		recommended[s.Start.Hour()] = s.Recommended
	}
	assert.False(t, recommended[9])
	assert.True(t, recommended[10])
	assert.True(t, recommended[15])
	assert.False(t, recommended[16])
}

func TestGenerateSlots_InvalidInput(t *testing.T) {
	day := Day{Date: monday, WorkingHours: hours("09:00", "17:00")}

	_, err := GenerateSlots(day, 60, SlotOptions{GridMinutes: 0})
	assert.ErrorIs(t, err, ErrInvalidGrid)

	_, err = GenerateSlots(day, 0, SlotOptions{GridMinutes: 15})
	assert.ErrorIs(t, err, ErrInvalidDuration)

	reversed := Day{Date: monday, WorkingHours: hours("17:00", "09:00")}
	_, err = GenerateSlots(reversed, 60, SlotOptions{GridMinutes: 15})
	assert.ErrorIs(t, err, ErrInvalidWorkingHours)
}

func TestGenerateSlots_Location(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	day := Day{Date: time.Date(2026, time.March, 2, 0, 0, 0, 0, loc), WorkingHours: hours("09:00", "10:00")}

	slots, err := GenerateSlots(day, 60, SlotOptions{GridMinutes: 15, Location: loc})
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, time.Date(2026, time.March, 2, 6, 0, 0, 0, time.UTC), slots[0].Start.UTC())
}

func starts(slots []domain.AvailableSlot) []time.Time {
	result := make([]time.Time, 0, len(slots))
	for _, s := range slots {
		result = append(result, s.Start)
	}
	return result
}

func parent(rule *domain.RecurrenceRule, start time.Time) *domain.Appointment {
	notes := "color"
	return &domain.Appointment{
		ID:       10,
		TenantID: 1,
		ClientID: 5,
		Services: []domain.ServiceLine{
			{ServiceID: 1, Name: "Haircut", DurationMinutes: 45, Price: decimal.NewFromInt(25)},
		},
		StartAt:     start,
		EndAt:       start.Add(45 * time.Minute),
		State:       domain.StateConfirmed,
		Notes:       &notes,
		Price:       decimal.NewFromInt(25),
		IsRecurring: true,
		Recurrence:  rule,
	}
}

func TestExpandSeries_Patterns(t *testing.T) {
	three := 3
	start := at(monday, 10, 0)

	tests := []struct {
		name     string
		rule     domain.RecurrenceRule
		expected []time.Time
	}{
		{
			name:     "daily",
			rule:     domain.RecurrenceRule{Pattern: domain.PatternDaily, MaxOccurrences: &three},
			expected: []time.Time{start.AddDate(0, 0, 1), start.AddDate(0, 0, 2), start.AddDate(0, 0, 3)},
		},
		{
			name:     "weekly without weekdays",
			rule:     domain.RecurrenceRule{Pattern: domain.PatternWeekly, MaxOccurrences: &three},
			expected: []time.Time{start.AddDate(0, 0, 7), start.AddDate(0, 0, 14), start.AddDate(0, 0, 21)},
		},
		{
			name:     "biweekly",
			rule:     domain.RecurrenceRule{Pattern: domain.PatternBiweekly, MaxOccurrences: &three},
			expected: []time.Time{start.AddDate(0, 0, 14), start.AddDate(0, 0, 28), start.AddDate(0, 0, 42)},
		},
		{
			name:     "monthly",
			rule:     domain.RecurrenceRule{Pattern: domain.PatternMonthly, MaxOccurrences: &three},
			expected: []time.Time{start.AddDate(0, 1, 0), start.AddDate(0, 2, 0), start.AddDate(0, 3, 0)},
		},
		{
			name:     "quarterly",
			rule:     domain.RecurrenceRule{Pattern: domain.PatternQuarterly, MaxOccurrences: &three},
			expected: []time.Time{start.AddDate(0, 3, 0), start.AddDate(0, 6, 0), start.AddDate(0, 9, 0)},
		},
		{
			name:     "custom interval",
			rule:     domain.RecurrenceRule{Pattern: domain.PatternCustom, IntervalDays: 3, MaxOccurrences: &three},
			expected: []time.Time{start.AddDate(0, 0, 3), start.AddDate(0, 0, 6), start.AddDate(0, 0, 9)},
		},
		{
			name:     "custom without interval",
			rule:     domain.RecurrenceRule{Pattern: domain.PatternCustom, MaxOccurrences: &three},
			expected: []time.Time{start.AddDate(0, 0, 1), start.AddDate(0, 0, 2), start.AddDate(0, 0, 3)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := tt.rule
			children, err := ExpandSeries(parent(&rule, start))
			require.NoError(t, err)

			got := make([]time.Time, 0, len(children))
			for _, c := range children {
				got = append(got, c.StartAt)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExpandSeries_WeeklyWeekdays(t *testing.T) {
	eight := 8
	rule := &domain.RecurrenceRule{
		Pattern:        domain.PatternWeekly,
		Weekdays:       []domain.Weekday{domain.Monday, domain.Wednesday},
		MaxOccurrences: &eight,
	}

	children, err := ExpandSeries(parent(rule, at(monday, 10, 0)))
	require.NoError(t, err)
	require.Len(t, children, 8)

	expected := []domain.Weekday{domain.Wednesday, domain.Monday}
	for i, c := range children {
		assert.Equal(t, expected[i%2], domain.WeekdayOf(c.StartAt), "child %d", i)
		assert.Equal(t, 10, c.StartAt.Hour())
	}
	assert.Equal(t, at(monday, 10, 0).AddDate(0, 0, 2), children[0].StartAt)
	assert.Equal(t, at(monday, 10, 0).AddDate(0, 0, 7), children[1].StartAt)
}

func TestExpandSeries_Bounds(t *testing.T) {
	start := at(monday, 10, 0)

	t.Run("default cap", func(t *testing.T) {
		children, err := ExpandSeries(parent(&domain.RecurrenceRule{Pattern: domain.PatternDaily}, start))
		require.NoError(t, err)
		assert.Len(t, children, domain.DefaultMaxOccurrences)
	})

	t.Run("end date is tighter than cap", func(t *testing.T) {
		end := time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC)
		ten := 10
		rule := &domain.RecurrenceRule{Pattern: domain.PatternWeekly, EndDate: &end, MaxOccurrences: &ten}

		children, err := ExpandSeries(parent(rule, start))
		require.NoError(t, err)
		require.Len(t, children, 2)
		for _, c := range children {
			assert.False(t, domain.DateOnly(c.StartAt).After(end))
		}
	})

	t.Run("end date day is inclusive", func(t *testing.T) {
		end := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
		rule := &domain.RecurrenceRule{Pattern: domain.PatternWeekly, EndDate: &end}

		children, err := ExpandSeries(parent(rule, start))
		require.NoError(t, err)
		require.Len(t, children, 1)
		assert.Equal(t, start.AddDate(0, 0, 7), children[0].StartAt)
	})

	t.Run("default one year horizon", func(t *testing.T) {
		children, err := ExpandSeries(parent(&domain.RecurrenceRule{Pattern: domain.PatternMonthly}, start))
		require.NoError(t, err)
		assert.Len(t, children, 12)
		assert.Equal(t, start.AddDate(1, 0, 0), children[len(children)-1].StartAt)
	})
}

func TestExpandSeries_ChildShape(t *testing.T) {
	two := 2
	p := parent(&domain.RecurrenceRule{Pattern: domain.PatternDaily, MaxOccurrences: &two}, at(monday, 10, 0))

	children, err := ExpandSeries(p)
	require.NoError(t, err)
	require.Len(t, children, 2)

	for _, c := range children {
		require.NotNil(t, c.ParentID)
		assert.Equal(t, p.ID, *c.ParentID)
		assert.Nil(t, c.Recurrence)
		assert.False(t, c.IsRecurring)
		assert.Equal(t, domain.StatePending, c.State)
		assert.Equal(t, p.ClientID, c.ClientID)
		assert.True(t, p.Price.Equal(c.Price))
		assert.Equal(t, 45*time.Minute, c.EndAt.Sub(c.StartAt))
		assert.NoError(t, c.Validate())
	}

	// дети не разделяют память с родителем
	*children[0].Notes = "changed"
	children[0].Services[0].Name = "changed"
	assert.Equal(t, "color", *p.Notes)
	assert.Equal(t, "Haircut", p.Services[0].Name)
}

func TestExpandSeries_Errors(t *testing.T) {
	_, err := ExpandSeries(nil)
	assert.ErrorIs(t, err, ErrNoRecurrence)

	_, err = ExpandSeries(parent(nil, at(monday, 10, 0)))
	assert.ErrorIs(t, err, ErrNoRecurrence)

	_, err = ExpandSeries(parent(&domain.RecurrenceRule{Pattern: "YEARLY"}, at(monday, 10, 0)))
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestAddMonthsClamped(t *testing.T) {
	jan31 := time.Date(2026, time.January, 31, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, time.February, 28, 10, 0, 0, 0, time.UTC), AddMonthsClamped(jan31, 1))
	assert.Equal(t, time.Date(2026, time.March, 31, 10, 0, 0, 0, time.UTC), AddMonthsClamped(jan31, 2))
	assert.Equal(t, time.Date(2026, time.April, 30, 10, 0, 0, 0, time.UTC), AddMonthsClamped(jan31, 3))
	assert.Equal(t, time.Date(2027, time.January, 31, 10, 0, 0, 0, time.UTC), AddMonthsClamped(jan31, 12))
}
