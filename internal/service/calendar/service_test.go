package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	calendarRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/calendar"
	"github.com/m04kA/SMC-AppointmentService/internal/service/calendar/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

type memCalendar struct {
	hours   map[domain.Weekday]*domain.WorkingHours
	daysOff map[string]*domain.DayOff
	nextID  int64
	updated int
}

func newMemCalendar() *memCalendar {
	return &memCalendar{
		hours:   map[domain.Weekday]*domain.WorkingHours{},
		daysOff: map[string]*domain.DayOff{},
	}
}

func (m *memCalendar) GetWorkingHours(_ context.Context, _ int64, weekday domain.Weekday) (*domain.WorkingHours, error) {
	wh, ok := m.hours[weekday]
	if !ok || !wh.Active {
		return nil, calendarRepo.ErrWorkingHoursNotFound
	}
	return wh, nil
}

func (m *memCalendar) ListWorkingHours(context.Context, int64) ([]*domain.WorkingHours, error) {
	out := make([]*domain.WorkingHours, 0, len(m.hours))
	for _, wh := range m.hours {
		out = append(out, wh)
	}
	return out, nil
}

func (m *memCalendar) CreateWorkingHours(_ context.Context, wh *domain.WorkingHours) (*domain.WorkingHours, error) {
	m.nextID++
	wh.ID = m.nextID
	m.hours[wh.Weekday] = wh
	return wh, nil
}

func (m *memCalendar) UpdateWorkingHours(_ context.Context, wh *domain.WorkingHours) error {
	m.updated++
	m.hours[wh.Weekday] = wh
	return nil
}

func (m *memCalendar) ListDaysOff(context.Context, int64, *time.Time) ([]*domain.DayOff, error) {
	out := make([]*domain.DayOff, 0, len(m.daysOff))
	for _, d := range m.daysOff {
		out = append(out, d)
	}
	return out, nil
}

func (m *memCalendar) CreateDayOff(_ context.Context, d *domain.DayOff) (*domain.DayOff, error) {
	key := d.Date.Format(domain.DateFormat)
	if _, ok := m.daysOff[key]; ok {
		return nil, calendarRepo.ErrDuplicateDayOff
	}
	m.nextID++
	d.ID = m.nextID
	m.daysOff[key] = d
	return d, nil
}

func (m *memCalendar) DeleteDayOff(_ context.Context, _ int64, date time.Time) error {
	key := date.Format(domain.DateFormat)
	if _, ok := m.daysOff[key]; !ok {
		return calendarRepo.ErrDayOffNotFound
	}
	delete(m.daysOff, key)
	return nil
}

type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

func newTestService(repo *memCalendar) *Service {
	svc := NewService(repo, inlineTx{}, time.UTC, logger.NewNop())
	svc.timeProvider = fixedTime{t: time.Date(2026, time.March, 10, 15, 0, 0, 0, time.UTC)}
	return svc
}

func TestService_UpsertWorkingHours(t *testing.T) {
	repo := newMemCalendar()
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.UpsertWorkingHours(ctx, 1, &models.UpsertWorkingHoursRequest{Weekday: 0, OpenTime: "09:00", CloseTime: "17:00"})
	require.NoError(t, err)
	assert.Equal(t, "Monday", created.DayName)
	assert.True(t, created.Active)

	// повторный вызов заменяет запись, а не создает вторую
	updated, err := svc.UpsertWorkingHours(ctx, 1, &models.UpsertWorkingHoursRequest{Weekday: 0, OpenTime: "10:00", CloseTime: "14:00"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "10:00", updated.OpenTime)
	assert.Equal(t, 1, repo.updated)
	assert.Len(t, repo.hours, 1)
}

func TestService_UpsertWorkingHours_Validation(t *testing.T) {
	svc := newTestService(newMemCalendar())

	tests := []struct {
		name    string
		req     models.UpsertWorkingHoursRequest
		wantErr error
	}{
		{name: "close equals open", req: models.UpsertWorkingHoursRequest{Weekday: 1, OpenTime: "09:00", CloseTime: "09:00"}, wantErr: ErrCloseBeforeOpen},
		{name: "close before open", req: models.UpsertWorkingHoursRequest{Weekday: 1, OpenTime: "18:00", CloseTime: "09:00"}, wantErr: ErrCloseBeforeOpen},
		{name: "bad weekday", req: models.UpsertWorkingHoursRequest{Weekday: 7, OpenTime: "09:00", CloseTime: "17:00"}, wantErr: ErrInvalidWeekday},
		{name: "bad time", req: models.UpsertWorkingHoursRequest{Weekday: 1, OpenTime: "9am", CloseTime: "17:00"}, wantErr: ErrInvalidTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpsertWorkingHours(context.Background(), 1, &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, domain.ErrBadRequest)
		})
	}
}

func TestService_DaysOff(t *testing.T) {
	repo := newMemCalendar()
	svc := newTestService(repo)
	ctx := context.Background()

	today := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	_, err := svc.AddDayOff(ctx, 1, today.AddDate(0, 0, -1), nil)
	assert.ErrorIs(t, err, ErrDayOffInPast)

	created, err := svc.AddDayOff(ctx, 1, today, ptr.Ptr("Inventario"))
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", created.Date)

	_, err = svc.AddDayOff(ctx, 1, today, nil)
	assert.ErrorIs(t, err, domain.ErrConflict)

	list, err := svc.ListDaysOff(ctx, 1, nil)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.RemoveDayOff(ctx, 1, today))
	assert.ErrorIs(t, svc.RemoveDayOff(ctx, 1, today), domain.ErrNotFound)
}
