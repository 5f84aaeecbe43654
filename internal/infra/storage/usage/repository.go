package usage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий счётчиков использования по периодам
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория счётчиков
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get возвращает счётчики арендатора за период (YYYY-MM)
func (r *Repository) Get(ctx context.Context, tenantID int64, period string) (*domain.UsageCounter, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"tenant_id",
		"period",
		"users",
		"clients",
		"appointments_this_month",
		"services",
		"updated_at",
	).
		From("usage_counters").
		Where(squirrel.Eq{"tenant_id": tenantID, "period": period}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var u domain.UsageCounter
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&u.TenantID,
		&u.Period,
		&u.Users,
		&u.Clients,
		&u.AppointmentsThisMonth,
		&u.Services,
		&u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrUsageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan usage: %v", ErrScanRow, err)
	}

	return &u, nil
}

// EnsurePeriod создает нулевую запись за период, если её ещё нет
func (r *Repository) EnsurePeriod(ctx context.Context, tenantID int64, period string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("usage_counters").
		Columns("tenant_id", "period").
		Values(tenantID, period).
		Suffix("ON CONFLICT (tenant_id, period) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: EnsurePeriod - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: EnsurePeriod - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// Save перезаписывает счётчики за период пересчитанными значениями
func (r *Repository) Save(ctx context.Context, u *domain.UsageCounter) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("usage_counters").
		Set("users", u.Users).
		Set("clients", u.Clients).
		Set("appointments_this_month", u.AppointmentsThisMonth).
		Set("services", u.Services).
		Set("updated_at", u.UpdatedAt).
		Where(squirrel.Eq{"tenant_id": u.TenantID, "period": u.Period}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Save - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Save - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Save - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrUsageNotFound
	}

	return nil
}
