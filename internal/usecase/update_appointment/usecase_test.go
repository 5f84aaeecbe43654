package update_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	calendarRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/calendar"
	clientRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/client"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

const tenantID int64 = 1

type memAppointments struct {
	items   map[int64]*domain.Appointment
	updates int
	lines   bool
}

func (m *memAppointments) GetByID(_ context.Context, tenant, id int64) (*domain.Appointment, error) {
	a, ok := m.items[id]
	if !ok || a.TenantID != tenant {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAppointments) ListByDate(_ context.Context, tenant int64, date time.Time) ([]*domain.Appointment, error) {
	var out []*domain.Appointment
	for _, a := range m.items {
		if a.TenantID == tenant && a.IsActive() && domain.SameDate(a.StartAt.In(date.Location()), date) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAppointments) Update(_ context.Context, a *domain.Appointment, replaceLines bool) error {
	m.updates++
	m.lines = replaceLines
	m.items[a.ID] = a
	return nil
}

type fakeCatalog map[int64]*domain.Service

func (f fakeCatalog) GetByIDs(_ context.Context, _ int64, ids []int64) ([]*domain.Service, error) {
	var out []*domain.Service
	for _, id := range ids {
		if s, ok := f[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeClients struct{}

func (fakeClients) GetByID(_ context.Context, _ int64, id int64) (*domain.Client, error) {
	if id != 7 && id != 8 {
		return nil, clientRepo.ErrClientNotFound
	}
	return &domain.Client{ID: id}, nil
}

type fakeCalendar struct {
	hours *domain.WorkingHours
}

func (f fakeCalendar) GetWorkingHours(_ context.Context, _ int64, weekday domain.Weekday) (*domain.WorkingHours, error) {
	if weekday != domain.Monday {
		return nil, calendarRepo.ErrWorkingHoursNotFound
	}
	return f.hours, nil
}

func (fakeCalendar) GetDayOff(context.Context, int64, time.Time) (*domain.DayOff, error) {
	return nil, calendarRepo.ErrDayOffNotFound
}

type fakeLocker struct {
	keys []string
}

func (f *fakeLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	f.keys = append(f.keys, key)
	return fn(ctx)
}

type fakeMetrics struct {
	conflicts int
}

func (f *fakeMetrics) IncConflict(string) { f.conflicts++ }

type inlineTx struct{}

func (inlineTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

func monday(hour, minute int) time.Time {
	return time.Date(2026, time.March, 16, hour, minute, 0, 0, time.UTC)
}

var (
	corte  = domain.ServiceLine{ServiceID: 1, Name: "Corte", DurationMinutes: 30, Price: decimal.NewFromInt(10)}
	lavado = domain.ServiceLine{ServiceID: 2, Name: "Lavado", DurationMinutes: 15, Price: decimal.NewFromInt(5)}
)

func newTestUseCase(t *testing.T) (*UseCase, *memAppointments, *fakeLocker, *fakeMetrics) {
	t.Helper()

	open, err := types.NewTimeStringFromString("09:00")
	require.NoError(t, err)
	closeAt, err := types.NewTimeStringFromString("17:00")
	require.NoError(t, err)

	repo := &memAppointments{items: map[int64]*domain.Appointment{
		1: {ID: 1, TenantID: tenantID, ClientID: 7, Services: []domain.ServiceLine{corte},
			StartAt: monday(10, 0), EndAt: monday(10, 30), State: domain.StatePending, Price: corte.Price},
		2: {ID: 2, TenantID: tenantID, ClientID: 8, Services: []domain.ServiceLine{corte},
			StartAt: monday(11, 0), EndAt: monday(11, 30), State: domain.StateConfirmed, Price: corte.Price},
		3: {ID: 3, TenantID: tenantID, ClientID: 7, Services: []domain.ServiceLine{corte},
			StartAt: monday(15, 0), EndAt: monday(15, 30), State: domain.StateCanceled, Price: corte.Price},
	}}
	catalog := fakeCatalog{
		1: {ID: 1, Name: "Corte", DurationMinutes: 30, Price: decimal.NewFromInt(10), State: domain.ServiceActive},
		2: {ID: 2, Name: "Lavado", DurationMinutes: 15, Price: decimal.NewFromInt(5), State: domain.ServiceActive},
	}
	calendar := fakeCalendar{hours: &domain.WorkingHours{Weekday: domain.Monday, OpenTime: open, CloseTime: closeAt, Active: true}}
	lk := &fakeLocker{}
	metrics := &fakeMetrics{}

	uc := NewUseCase(repo, catalog, fakeClients{}, calendar, lk, metrics, inlineTx{}, Options{Location: time.UTC}, logger.NewNop())
	uc.timeProvider = fixedTime{t: time.Date(2026, time.March, 10, 15, 0, 0, 0, time.UTC)}
	return uc, repo, lk, metrics
}

func TestUseCase_Execute_Reschedule(t *testing.T) {
	uc, repo, lk, _ := newTestUseCase(t)

	// сдвиг на 10:15 пересекается только с самой собой
	resp, err := uc.Execute(context.Background(), &Request{
		TenantID:      tenantID,
		AppointmentID: 1,
		Patch:         domain.AppointmentPatch{StartAt: ptr.Ptr(monday(10, 15))},
	})
	require.NoError(t, err)
	assert.Equal(t, "10:15", resp.Appointment.StartTime)
	assert.Equal(t, "10:45", resp.Appointment.EndTime)
	assert.Equal(t, []string{"appointments:1:2026-03-16"}, lk.keys)
	assert.False(t, repo.lines)
}

func TestUseCase_Execute_RescheduleIntoPast(t *testing.T) {
	past := monday(10, 0).AddDate(0, 0, -14)
	req := &Request{TenantID: tenantID, AppointmentID: 1, Patch: domain.AppointmentPatch{StartAt: ptr.Ptr(past)}}

	uc, repo, _, _ := newTestUseCase(t)
	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", resp.Appointment.Date)
	assert.Equal(t, 1, repo.updates)

	uc, repo, lk, _ := newTestUseCase(t)
	uc.options.RejectPastStarts = true
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStartInPast)
	assert.Zero(t, repo.updates)
	assert.Empty(t, lk.keys)
}

func TestUseCase_Execute_RescheduleConflict(t *testing.T) {
	uc, repo, _, metrics := newTestUseCase(t)

	_, err := uc.Execute(context.Background(), &Request{
		TenantID:      tenantID,
		AppointmentID: 1,
		Patch:         domain.AppointmentPatch{StartAt: ptr.Ptr(monday(10, 45))},
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.EqualError(t, err, "conflicts with an existing appointment from 11:00-11:30")
	assert.Equal(t, 1, metrics.conflicts)
	assert.Zero(t, repo.updates)
}

func TestUseCase_Execute_CanceledDoesNotBlock(t *testing.T) {
	uc, _, _, _ := newTestUseCase(t)

	_, err := uc.Execute(context.Background(), &Request{
		TenantID:      tenantID,
		AppointmentID: 1,
		Patch:         domain.AppointmentPatch{StartAt: ptr.Ptr(monday(15, 0))},
	})
	require.NoError(t, err)
}

func TestUseCase_Execute_ChangeServices(t *testing.T) {
	uc, repo, _, _ := newTestUseCase(t)

	resp, err := uc.Execute(context.Background(), &Request{
		TenantID:      tenantID,
		AppointmentID: 1,
		Patch:         domain.AppointmentPatch{ServiceIDs: []int64{1, 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, 45, resp.Appointment.DurationMinutes)
	assert.Equal(t, "10:45", resp.Appointment.EndTime)
	assert.True(t, decimal.NewFromInt(15).Equal(resp.Appointment.Price))
	assert.True(t, repo.lines)

	// 10:00-10:45 + ещё 15 минут упирается в запись 11:00
	_, err = uc.Execute(context.Background(), &Request{
		TenantID:      tenantID,
		AppointmentID: 1,
		Patch:         domain.AppointmentPatch{ServiceIDs: []int64{1, 2}, StartAt: ptr.Ptr(monday(10, 30))},
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUseCase_Execute_NotesOnly(t *testing.T) {
	uc, repo, lk, _ := newTestUseCase(t)

	resp, err := uc.Execute(context.Background(), &Request{
		TenantID:      tenantID,
		AppointmentID: 2,
		Patch:         domain.AppointmentPatch{Notes: ptr.Ptr("trae su propio tinte"), ClientID: ptr.Ptr(int64(7))},
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Appointment.Notes)
	assert.Equal(t, "trae su propio tinte", *resp.Appointment.Notes)
	assert.Equal(t, int64(7), resp.Appointment.ClientID)
	assert.Empty(t, lk.keys)
	assert.Equal(t, 1, repo.updates)
}

func TestUseCase_Execute_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{name: "empty patch", req: Request{TenantID: tenantID, AppointmentID: 1}, wantErr: ErrEmptyPatch},
		{name: "not found", req: Request{TenantID: tenantID, AppointmentID: 99, Patch: domain.AppointmentPatch{Notes: ptr.Ptr("x")}}, wantErr: ErrAppointmentNotFound},
		{name: "other tenant", req: Request{TenantID: 2, AppointmentID: 1, Patch: domain.AppointmentPatch{Notes: ptr.Ptr("x")}}, wantErr: domain.ErrNotFound},
		{name: "canceled", req: Request{TenantID: tenantID, AppointmentID: 3, Patch: domain.AppointmentPatch{Notes: ptr.Ptr("x")}}, wantErr: ErrNotEditable},
		{name: "unknown client", req: Request{TenantID: tenantID, AppointmentID: 1, Patch: domain.AppointmentPatch{ClientID: ptr.Ptr(int64(42))}}, wantErr: ErrClientNotFound},
		{name: "unknown service", req: Request{TenantID: tenantID, AppointmentID: 1, Patch: domain.AppointmentPatch{ServiceIDs: []int64{9}}}, wantErr: ErrServiceNotFound},
		{name: "closed weekday", req: Request{TenantID: tenantID, AppointmentID: 1, Patch: domain.AppointmentPatch{StartAt: ptr.Ptr(monday(10, 0).AddDate(0, 0, 1))}}, wantErr: ErrDayOff},
		{name: "after closing", req: Request{TenantID: tenantID, AppointmentID: 1, Patch: domain.AppointmentPatch{StartAt: ptr.Ptr(monday(16, 45))}}, wantErr: ErrOutsideWorkingHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, repo, _, _ := newTestUseCase(t)

			_, err := uc.Execute(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, repo.updates)
		})
	}
}
