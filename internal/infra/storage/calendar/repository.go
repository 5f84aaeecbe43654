package calendar

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/pgerrors"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

var workingHoursColumns = []string{
	"id",
	"tenant_id",
	"weekday",
	"open_time",
	"close_time",
	"active",
	"created_at",
	"updated_at",
}

// Repository репозиторий рабочих часов и выходных дней арендатора
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория календаря
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetWorkingHours возвращает действующую запись рабочих часов на день недели
func (r *Repository) GetWorkingHours(ctx context.Context, tenantID int64, weekday domain.Weekday) (*domain.WorkingHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(workingHoursColumns...).
		From("working_hours").
		Where(squirrel.Eq{"tenant_id": tenantID, "weekday": int(weekday), "active": true}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkingHours - build select query: %v", ErrBuildQuery, err)
	}

	wh, err := scanWorkingHours(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrWorkingHoursNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkingHours - scan working hours: %v", ErrScanRow, err)
	}

	return wh, nil
}

// ListWorkingHours возвращает все записи рабочих часов арендатора по дням недели
func (r *Repository) ListWorkingHours(ctx context.Context, tenantID int64) ([]*domain.WorkingHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(workingHoursColumns...).
		From("working_hours").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("weekday ASC", "active DESC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListWorkingHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWorkingHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.WorkingHours, 0)
	for rows.Next() {
		wh, err := scanWorkingHours(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListWorkingHours - scan row: %v", ErrScanRow, err)
		}
		result = append(result, wh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListWorkingHours - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// CreateWorkingHours добавляет запись рабочих часов
func (r *Repository) CreateWorkingHours(ctx context.Context, wh *domain.WorkingHours) (*domain.WorkingHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("working_hours").
		Columns("tenant_id", "weekday", "open_time", "close_time", "active").
		Values(wh.TenantID, int(wh.Weekday), wh.OpenTime, wh.CloseTime, wh.Active).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateWorkingHours - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&wh.ID, &createdAt, &updatedAt)
	if err != nil {
		if pgerrors.IsUniqueViolation(err) {
			return nil, ErrDuplicateWeekday
		}
		return nil, fmt.Errorf("%w: CreateWorkingHours - execute insert: %v", ErrExecQuery, err)
	}

	wh.CreatedAt = createdAt.Time
	wh.UpdatedAt = updatedAt.Time

	return wh, nil
}

// UpdateWorkingHours перезаписывает время и флаг активности записи
func (r *Repository) UpdateWorkingHours(ctx context.Context, wh *domain.WorkingHours) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("working_hours").
		Set("open_time", wh.OpenTime).
		Set("close_time", wh.CloseTime).
		Set("active", wh.Active).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": wh.ID, "tenant_id": wh.TenantID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateWorkingHours - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if pgerrors.IsUniqueViolation(err) {
			return ErrDuplicateWeekday
		}
		return fmt.Errorf("%w: UpdateWorkingHours - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateWorkingHours - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrWorkingHoursNotFound
	}

	return nil
}

// GetDayOff возвращает выходной арендатора на календарную дату
func (r *Repository) GetDayOff(ctx context.Context, tenantID int64, date time.Time) (*domain.DayOff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "tenant_id", "day_off", "reason", "created_at").
		From("days_off").
		Where(squirrel.Eq{"tenant_id": tenantID, "day_off": date.Format(domain.DateFormat)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetDayOff - build select query: %v", ErrBuildQuery, err)
	}

	dayOff, err := scanDayOff(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrDayOffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetDayOff - scan day off: %v", ErrScanRow, err)
	}

	return dayOff, nil
}

// ListDaysOff возвращает выходные арендатора начиная с даты from (если указана)
func (r *Repository) ListDaysOff(ctx context.Context, tenantID int64, from *time.Time) ([]*domain.DayOff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "tenant_id", "day_off", "reason", "created_at").
		From("days_off").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("day_off ASC")

	if from != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"day_off": from.Format(domain.DateFormat)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListDaysOff - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListDaysOff - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.DayOff, 0)
	for rows.Next() {
		dayOff, err := scanDayOff(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListDaysOff - scan row: %v", ErrScanRow, err)
		}
		result = append(result, dayOff)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListDaysOff - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// CreateDayOff добавляет выходной
func (r *Repository) CreateDayOff(ctx context.Context, dayOff *domain.DayOff) (*domain.DayOff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("days_off").
		Columns("tenant_id", "day_off", "reason").
		Values(dayOff.TenantID, dayOff.Date.Format(domain.DateFormat), dayOff.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateDayOff - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&dayOff.ID, &createdAt); err != nil {
		if pgerrors.IsUniqueViolation(err) {
			return nil, ErrDuplicateDayOff
		}
		return nil, fmt.Errorf("%w: CreateDayOff - execute insert: %v", ErrExecQuery, err)
	}
	dayOff.CreatedAt = createdAt.Time

	return dayOff, nil
}

// DeleteDayOff удаляет выходной на дату
func (r *Repository) DeleteDayOff(ctx context.Context, tenantID int64, date time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("days_off").
		Where(squirrel.Eq{"tenant_id": tenantID, "day_off": date.Format(domain.DateFormat)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteDayOff - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteDayOff - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteDayOff - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrDayOffNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWorkingHours(row rowScanner) (*domain.WorkingHours, error) {
	var wh domain.WorkingHours
	var weekday int
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&wh.ID,
		&wh.TenantID,
		&weekday,
		&wh.OpenTime,
		&wh.CloseTime,
		&wh.Active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	wh.Weekday = domain.Weekday(weekday)
	wh.CreatedAt = createdAt.Time
	wh.UpdatedAt = updatedAt.Time

	return &wh, nil
}

func scanDayOff(row rowScanner) (*domain.DayOff, error) {
	var dayOff domain.DayOff
	var createdAt sql.NullTime

	if err := row.Scan(&dayOff.ID, &dayOff.TenantID, &dayOff.Date, &dayOff.Reason, &createdAt); err != nil {
		return nil, err
	}
	dayOff.CreatedAt = createdAt.Time

	return &dayOff, nil
}
