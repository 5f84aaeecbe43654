package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func newRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(dbmetrics.Wrap(db, nil)), mock
}

var now = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func TestRepository_GetWorkingHours(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectQuery("FROM working_hours WHERE (.+) LIMIT 1").
		WillReturnRows(sqlmock.NewRows(workingHoursColumns).
			AddRow(int64(3), int64(1), 0, "09:00:00", "17:30:00", true, now, now))

	wh, err := repo.GetWorkingHours(context.Background(), 1, domain.Monday)
	require.NoError(t, err)
	assert.Equal(t, domain.Monday, wh.Weekday)
	assert.Equal(t, types.TimeString("09:00"), wh.OpenTime)
	assert.Equal(t, types.TimeString("17:30"), wh.CloseTime)
	assert.True(t, wh.IsOpen())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetWorkingHours_NotFound(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectQuery("FROM working_hours").WillReturnRows(sqlmock.NewRows(workingHoursColumns))

	_, err := repo.GetWorkingHours(context.Background(), 1, domain.Sunday)
	assert.ErrorIs(t, err, ErrWorkingHoursNotFound)
}

func TestRepository_CreateWorkingHours_Duplicate(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectQuery("INSERT INTO working_hours").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.CreateWorkingHours(context.Background(), &domain.WorkingHours{
		TenantID:  1,
		Weekday:   domain.Monday,
		OpenTime:  "09:00",
		CloseTime: "17:00",
		Active:    true,
	})
	assert.ErrorIs(t, err, ErrDuplicateWeekday)
}

func TestRepository_UpdateWorkingHours(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectExec("UPDATE working_hours SET open_time = \\$1, close_time = \\$2, active = \\$3").
		WithArgs("10:00", "18:00", true, int64(3), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateWorkingHours(context.Background(), &domain.WorkingHours{
		ID:        3,
		TenantID:  1,
		OpenTime:  "10:00",
		CloseTime: "18:00",
		Active:    true,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DaysOff(t *testing.T) {
	repo, mock := newRepository(t)
	date := time.Date(2026, time.March, 8, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM days_off").
		WithArgs("2026-03-08", int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "day_off", "reason", "created_at"}).
			AddRow(int64(9), int64(1), date, "holiday", now))
	mock.ExpectQuery("INSERT INTO days_off").
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectExec("DELETE FROM days_off").
		WillReturnResult(sqlmock.NewResult(0, 0))

	dayOff, err := repo.GetDayOff(context.Background(), 1, date)
	require.NoError(t, err)
	require.NotNil(t, dayOff.Reason)
	assert.Equal(t, "holiday", *dayOff.Reason)

	_, err = repo.CreateDayOff(context.Background(), &domain.DayOff{TenantID: 1, Date: date})
	assert.ErrorIs(t, err, ErrDuplicateDayOff)

	assert.ErrorIs(t, repo.DeleteDayOff(context.Background(), 1, date), ErrDayOffNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
