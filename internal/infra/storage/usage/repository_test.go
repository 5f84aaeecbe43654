package usage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
)

func newRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(dbmetrics.Wrap(db, nil)), mock
}

func TestRepository_EnsureAndSave(t *testing.T) {
	repo, mock := newRepository(t)
	now := time.Date(2026, time.March, 5, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO usage_counters (.+) ON CONFLICT \\(tenant_id, period\\) DO NOTHING").
		WithArgs(int64(1), "2026-03").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE usage_counters SET users = \\$1, clients = \\$2, appointments_this_month = \\$3, services = \\$4").
		WithArgs(2, 49, 100, 6, now, "2026-03", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.EnsurePeriod(context.Background(), 1, "2026-03"))
	require.NoError(t, repo.Save(context.Background(), &domain.UsageCounter{
		TenantID:              1,
		Period:                "2026-03",
		Users:                 2,
		Clients:               49,
		AppointmentsThisMonth: 100,
		Services:              6,
		UpdatedAt:             now,
	}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Get(t *testing.T) {
	repo, mock := newRepository(t)
	now := time.Date(2026, time.March, 5, 9, 0, 0, 0, time.UTC)
	columns := []string{"tenant_id", "period", "users", "clients", "appointments_this_month", "services", "updated_at"}

	mock.ExpectQuery("FROM usage_counters").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(1), "2026-03", 2, 49, 100, 6, now))
	mock.ExpectQuery("FROM usage_counters").
		WillReturnRows(sqlmock.NewRows(columns))

	u, err := repo.Get(context.Background(), 1, "2026-03")
	require.NoError(t, err)
	assert.Equal(t, 100, u.Count(domain.ResourceAppointmentsThisMonth))

	_, err = repo.Get(context.Background(), 1, "2026-04")
	assert.ErrorIs(t, err, ErrUsageNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
