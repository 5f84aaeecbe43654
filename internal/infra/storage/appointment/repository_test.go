package appointment

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
)

func newRepository(t *testing.T) (*Repository, *dbmetrics.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	wrapped := dbmetrics.Wrap(db, nil)
	return NewRepository(wrapped), wrapped, mock
}

var start = time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)

func appointmentRow(id int64, state domain.AppointmentState, extra ...driver.Value) []driver.Value {
	row := []driver.Value{
		id, int64(1), int64(5), start, start.Add(45 * time.Minute), string(state), "first visit", "25.00", false,
		nil, nil, nil, nil, nil, nil, start, start,
	}
	copy(row[9:], extra)
	return row
}

func TestRepository_Create(t *testing.T) {
	repo, _, mock := newRepository(t)

	mock.ExpectQuery("INSERT INTO appointments").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(42), start, start))
	mock.ExpectExec("INSERT INTO appointment_services").
		WillReturnResult(sqlmock.NewResult(0, 2))

	notes := "first visit"
	a := &domain.Appointment{
		TenantID: 1,
		ClientID: 5,
		Services: []domain.ServiceLine{
			{ServiceID: 1, Name: "Haircut", DurationMinutes: 30, Price: decimal.NewFromInt(20)},
			{ServiceID: 2, Name: "Wash", DurationMinutes: 15, Price: decimal.NewFromInt(5)},
		},
		StartAt: start,
		EndAt:   start.Add(45 * time.Minute),
		State:   domain.StatePending,
		Notes:   &notes,
		Price:   decimal.NewFromInt(25),
	}

	created, err := repo.Create(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)
	assert.Equal(t, start, created.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_ExclusionViolation(t *testing.T) {
	repo, _, mock := newRepository(t)

	mock.ExpectQuery("INSERT INTO appointments").
		WillReturnError(&pq.Error{Code: "23P01", Constraint: "appointments_no_overlap"})

	_, err := repo.Create(context.Background(), &domain.Appointment{
		TenantID: 1,
		ClientID: 5,
		StartAt:  start,
		EndAt:    start.Add(time.Hour),
		State:    domain.StatePending,
	})
	assert.ErrorIs(t, err, ErrOverlap)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	repo, _, mock := newRepository(t)

	mock.ExpectQuery("SELECT (.+) FROM appointments WHERE (.*)id = \\$1 AND tenant_id = \\$2").
		WithArgs(int64(42), int64(1)).
		WillReturnRows(sqlmock.NewRows(appointmentColumns).
			AddRow(appointmentRow(42, domain.StateConfirmed, "WEEKLY", []byte("{0,2}"), nil, int64(8), nil)...))
	mock.ExpectQuery("FROM appointment_services").
		WillReturnRows(sqlmock.NewRows([]string{"appointment_id", "service_id", "service_name", "duration_minutes", "price"}).
			AddRow(int64(42), int64(1), "Haircut", 30, "20.00").
			AddRow(int64(42), int64(2), "Wash", 15, "5.00"))

	a, err := repo.GetByID(context.Background(), 1, 42)
	require.NoError(t, err)

	assert.Equal(t, domain.StateConfirmed, a.State)
	require.NotNil(t, a.Notes)
	assert.Equal(t, "first visit", *a.Notes)
	assert.True(t, decimal.NewFromInt(25).Equal(a.Price))
	require.Len(t, a.Services, 2)
	assert.Equal(t, "Wash", a.Services[1].Name)

	require.NotNil(t, a.Recurrence)
	assert.Equal(t, domain.PatternWeekly, a.Recurrence.Pattern)
	assert.Equal(t, []domain.Weekday{domain.Monday, domain.Wednesday}, a.Recurrence.Weekdays)
	require.NotNil(t, a.Recurrence.MaxOccurrences)
	assert.Equal(t, 8, *a.Recurrence.MaxOccurrences)
	assert.Nil(t, a.Recurrence.EndDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, _, mock := newRepository(t)

	mock.ExpectQuery("FROM appointments").
		WillReturnRows(sqlmock.NewRows(appointmentColumns))

	_, err := repo.GetByID(context.Background(), 2, 42)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListByDate_LocksInsideTransaction(t *testing.T) {
	repo, db, mock := newRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM appointments WHERE (.+) ORDER BY start_at ASC FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(appointmentColumns).
			AddRow(appointmentRow(1, domain.StatePending)...).
			AddRow(appointmentRow(2, domain.StateConfirmed)...))
	mock.ExpectQuery("FROM appointment_services WHERE appointment_id IN \\(\\$1,\\$2\\)").
		WillReturnRows(sqlmock.NewRows([]string{"appointment_id", "service_id", "service_name", "duration_minutes", "price"}).
			AddRow(int64(1), int64(1), "Haircut", 45, "25.00"))

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), tx)

	list, err := repo.ListByDate(ctx, 1, start)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Len(t, list[0].Services, 1)
	assert.Empty(t, list[1].Services)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListByDate_NoLockOutsideTransaction(t *testing.T) {
	repo, _, mock := newRepository(t)

	mock.ExpectQuery("ORDER BY start_at ASC$").
		WillReturnRows(sqlmock.NewRows(appointmentColumns))

	list, err := repo.ListByDate(context.Background(), 1, start)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateState(t *testing.T) {
	repo, _, mock := newRepository(t)

	mock.ExpectExec("UPDATE appointments SET state = \\$1").
		WithArgs(domain.StateCanceled, int64(42), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE appointments SET state = \\$1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.UpdateState(context.Background(), 1, 42, domain.StateCanceled))
	assert.ErrorIs(t, repo.UpdateState(context.Background(), 1, 43, domain.StateCanceled), ErrAppointmentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update_ReplacesLines(t *testing.T) {
	repo, _, mock := newRepository(t)

	mock.ExpectExec("UPDATE appointments SET client_id").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM appointment_services WHERE appointment_id = \\$1").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO appointment_services").
		WillReturnResult(sqlmock.NewResult(0, 1))

	a := &domain.Appointment{
		ID:       42,
		TenantID: 1,
		ClientID: 5,
		Services: []domain.ServiceLine{{ServiceID: 3, Name: "Color", DurationMinutes: 60, Price: decimal.NewFromInt(50)}},
		StartAt:  start,
		EndAt:    start.Add(time.Hour),
		State:    domain.StatePending,
		Price:    decimal.NewFromInt(50),
	}
	require.NoError(t, repo.Update(context.Background(), a, true))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CountInPeriod(t *testing.T) {
	repo, _, mock := newRepository(t)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM appointments").
		WithArgs(int64(1), "2026-03-01", "2026-04-01", domain.StateCanceled).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(17))

	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	count, err := repo.CountInPeriod(context.Background(), 1, from, from.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, 17, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecurrenceValues_RoundTrip(t *testing.T) {
	assert.Equal(t, []interface{}{nil, nil, nil, nil, nil}, recurrenceValues(nil))

	limit := 10
	end := time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC)
	values := recurrenceValues(&domain.RecurrenceRule{
		Pattern:        domain.PatternCustom,
		IntervalDays:   3,
		MaxOccurrences: &limit,
		EndDate:        &end,
	})
	assert.Equal(t, "CUSTOM", values[0])
	assert.Nil(t, values[1])
	assert.Equal(t, 3, values[2])
	assert.Equal(t, 10, values[3])
	assert.Equal(t, "2026-06-30", values[4])
}
