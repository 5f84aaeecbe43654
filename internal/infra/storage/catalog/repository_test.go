package catalog

import (
	"context"
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

func newRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(dbmetrics.Wrap(db, nil)), mock
}

var now = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func TestRepository_GetByIDs(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectQuery("FROM services WHERE (.*)id IN \\(\\$1,\\$2\\) AND tenant_id = \\$3").
		WithArgs(int64(1), int64(2), int64(7)).
		WillReturnRows(sqlmock.NewRows(serviceColumns).
			AddRow(int64(1), int64(7), "Haircut", 30, "20.00", "active", now, now).
			AddRow(int64(2), int64(7), "Color", 90, "75.50", "inactive", now, now))

	services, err := repo.GetByIDs(context.Background(), 7, []int64{1, 2})
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.True(t, services[0].IsActive())
	assert.False(t, services[1].IsActive())
	assert.True(t, decimal.RequireFromString("75.50").Equal(services[1].Price))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByIDs_Empty(t *testing.T) {
	repo, mock := newRepository(t)

	services, err := repo.GetByIDs(context.Background(), 7, nil)
	require.NoError(t, err)
	assert.Empty(t, services)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_Duplicate(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectQuery("INSERT INTO services").WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), &domain.Service{
		TenantID:        7,
		Name:            "Haircut",
		DurationMinutes: 30,
		Price:           decimal.NewFromInt(20),
		State:           domain.ServiceActive,
	})
	assert.ErrorIs(t, err, ErrDuplicateService)
}

func TestRepository_SetStateAndCount(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectExec("UPDATE services SET state = \\$1").
		WithArgs(domain.ServiceInactive, int64(3), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM services").
		WithArgs(domain.ServiceActive, int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	assert.ErrorIs(t, repo.SetState(context.Background(), 7, 3, domain.ServiceInactive), ErrServiceNotFound)

	count, err := repo.CountActive(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
