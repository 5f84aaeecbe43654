package appointment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/pgerrors"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

const (
	tableAppointments = "appointments"
	tableLines        = "appointment_services"
)

var appointmentColumns = []string{
	"id",
	"tenant_id",
	"client_id",
	"start_at",
	"end_at",
	"state",
	"notes",
	"price",
	"is_recurring",
	"recurrence_pattern",
	"recurrence_weekdays",
	"recurrence_interval_days",
	"recurrence_max_occurrences",
	"recurrence_end_date",
	"parent_id",
	"created_at",
	"updated_at",
}

// Repository репозиторий записей и их услуг
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет запись вместе со списком услуг.
// Если в контексте передана активная транзакция, использует её.
//
// appointment_date берётся из StartAt как есть: вызывающий код переводит
// StartAt в часовой пояс арендатора.
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	values := []interface{}{
		a.TenantID,
		a.ClientID,
		a.StartAt.Format(domain.DateFormat),
		a.StartAt,
		a.EndAt,
		a.State,
		a.Notes,
		a.Price,
		a.IsRecurring,
	}
	values = append(values, recurrenceValues(a.Recurrence)...)
	values = append(values, a.ParentID)

	query, args, err := psqlbuilder.Insert(tableAppointments).
		Columns(
			"tenant_id",
			"client_id",
			"appointment_date",
			"start_at",
			"end_at",
			"state",
			"notes",
			"price",
			"is_recurring",
			"recurrence_pattern",
			"recurrence_weekdays",
			"recurrence_interval_days",
			"recurrence_max_occurrences",
			"recurrence_end_date",
			"parent_id",
		).
		Values(values...).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, mapWriteError("Create - execute insert", err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	if err := r.insertLines(ctx, executor, a.ID, a.Services); err != nil {
		return nil, err
	}

	return a, nil
}

// GetByID получает запись арендатора по ID.
// Запись другого арендатора неотличима от отсутствующей.
func (r *Repository) GetByID(ctx context.Context, tenantID, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From(tableAppointments).
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	if err := r.loadLines(ctx, executor, []*domain.Appointment{a}); err != nil {
		return nil, err
	}

	return a, nil
}

// ListByDate возвращает активные записи арендатора на календарную дату по возрастанию начала.
// Внутри транзакции строки блокируются (FOR UPDATE) до её завершения.
func (r *Repository) ListByDate(ctx context.Context, tenantID int64, date time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From(tableAppointments).
		Where(squirrel.Eq{"tenant_id": tenantID, "appointment_date": date.Format(domain.DateFormat)}).
		Where(squirrel.NotEq{"state": domain.StateCanceled}).
		OrderBy("start_at ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDate - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "ListByDate", query, args)
}

// List получает записи арендатора с фильтрацией
//
// Примеры использования:
//
// 1. Активные записи за период:
//    filter := domain.AppointmentsFilter{TenantID: 1, From: &from, To: &to}
//
// 2. История клиента, включая отменённые:
//    filter := domain.AppointmentsFilter{TenantID: 1, ClientID: &clientID, IncludeCanceled: true}
func (r *Repository) List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From(tableAppointments).
		Where(squirrel.Eq{"tenant_id": filter.TenantID}).
		OrderBy("start_at ASC")

	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"start_at": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_at": *filter.To})
	}
	if filter.ClientID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"client_id": *filter.ClientID})
	}

	// Конкретный статус важнее флага IncludeCanceled
	if filter.State != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"state": *filter.State})
	} else if !filter.IncludeCanceled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"state": domain.StateCanceled})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "List", query, args)
}

// ListSeries возвращает детей серии по возрастанию начала (включая отменённых)
func (r *Repository) ListSeries(ctx context.Context, tenantID, parentID int64) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From(tableAppointments).
		Where(squirrel.Eq{"tenant_id": tenantID, "parent_id": parentID}).
		OrderBy("start_at ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListSeries - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "ListSeries", query, args)
}

// Update перезаписывает изменяемые поля записи и, если передан список, её услуги
func (r *Repository) Update(ctx context.Context, a *domain.Appointment, replaceLines bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableAppointments).
		Set("client_id", a.ClientID).
		Set("appointment_date", a.StartAt.Format(domain.DateFormat)).
		Set("start_at", a.StartAt).
		Set("end_at", a.EndAt).
		Set("state", a.State).
		Set("notes", a.Notes).
		Set("price", a.Price).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": a.ID, "tenant_id": a.TenantID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError("Update - execute update", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	if !replaceLines {
		return nil
	}

	deleteQuery, deleteArgs, err := psqlbuilder.Delete(tableLines).
		Where(squirrel.Eq{"appointment_id": a.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build delete lines query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: Update - delete lines: %v", ErrExecQuery, err)
	}

	return r.insertLines(ctx, executor, a.ID, a.Services)
}

// UpdateState меняет состояние записи
func (r *Repository) UpdateState(ctx context.Context, tenantID, id int64, state domain.AppointmentState) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableAppointments).
		Set("state", state).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateState - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		// возврат отменённой записи в активное состояние может упереться в EXCLUDE
		return mapWriteError("UpdateState - execute update", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateState - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// CountInPeriod считает не отменённые записи арендатора с датой в [from, to)
func (r *Repository) CountInPeriod(ctx context.Context, tenantID int64, from, to time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(tableAppointments).
		Where(squirrel.Eq{"tenant_id": tenantID}).
		Where(squirrel.GtOrEq{"appointment_date": from.Format(domain.DateFormat)}).
		Where(squirrel.Lt{"appointment_date": to.Format(domain.DateFormat)}).
		Where(squirrel.NotEq{"state": domain.StateCanceled}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountInPeriod - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountInPeriod - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

func (r *Repository) query(ctx context.Context, executor DBExecutor, method, query string, args []interface{}) ([]*domain.Appointment, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, method, err)
	}

	appointments, err := scanAppointments(rows)
	_ = rows.Close()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}

	if err := r.loadLines(ctx, executor, appointments); err != nil {
		return nil, err
	}

	return appointments, nil
}

// insertLines сохраняет услуги записи в порядке их указания
func (r *Repository) insertLines(ctx context.Context, executor DBExecutor, appointmentID int64, lines []domain.ServiceLine) error {
	if len(lines) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert(tableLines).
		Columns("appointment_id", "position", "service_id", "service_name", "duration_minutes", "price")
	for i, line := range lines {
		insertBuilder = insertBuilder.Values(appointmentID, i, line.ServiceID, line.Name, line.DurationMinutes, line.Price)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertLines - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return mapWriteError("insertLines - execute insert", err)
	}

	return nil
}

// loadLines одним запросом подгружает услуги для всех переданных записей
func (r *Repository) loadLines(ctx context.Context, executor DBExecutor, appointments []*domain.Appointment) error {
	if len(appointments) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Appointment, len(appointments))
	ids := make([]int64, 0, len(appointments))
	for _, a := range appointments {
		byID[a.ID] = a
		ids = append(ids, a.ID)
	}

	query, args, err := psqlbuilder.Select("appointment_id", "service_id", "service_name", "duration_minutes", "price").
		From(tableLines).
		Where(squirrel.Eq{"appointment_id": ids}).
		OrderBy("appointment_id ASC", "position ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadLines - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadLines - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var appointmentID int64
		var line domain.ServiceLine
		if err := rows.Scan(&appointmentID, &line.ServiceID, &line.Name, &line.DurationMinutes, &line.Price); err != nil {
			return fmt.Errorf("%w: loadLines - scan row: %v", ErrScanRow, err)
		}
		if a, ok := byID[appointmentID]; ok {
			a.Services = append(a.Services, line)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadLines - rows error: %v", ErrScanRow, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var a domain.Appointment
	var (
		pattern        sql.NullString
		weekdays       pq.Int64Array
		intervalDays   sql.NullInt64
		maxOccurrences sql.NullInt64
		endDate        sql.NullTime
		createdAt      sql.NullTime
		updated        sql.NullTime
	)

	err := row.Scan(
		&a.ID,
		&a.TenantID,
		&a.ClientID,
		&a.StartAt,
		&a.EndAt,
		&a.State,
		&a.Notes,
		&a.Price,
		&a.IsRecurring,
		&pattern,
		&weekdays,
		&intervalDays,
		&maxOccurrences,
		&endDate,
		&a.ParentID,
		&createdAt,
		&updated,
	)
	if err != nil {
		return nil, err
	}

	a.Recurrence = decodeRecurrence(pattern, weekdays, intervalDays, maxOccurrences, endDate)
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updated.Time

	return &a, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

// recurrenceValues раскладывает правило по колонкам recurrence_*
func recurrenceValues(rule *domain.RecurrenceRule) []interface{} {
	if rule == nil {
		return []interface{}{nil, nil, nil, nil, nil}
	}

	var weekdays pq.Int64Array
	if len(rule.Weekdays) > 0 {
		weekdays = make(pq.Int64Array, 0, len(rule.Weekdays))
		for _, d := range rule.Weekdays {
			weekdays = append(weekdays, int64(d))
		}
	}

	var interval, maxOccurrences, endDate interface{}
	if rule.IntervalDays > 0 {
		interval = rule.IntervalDays
	}
	if rule.MaxOccurrences != nil {
		maxOccurrences = *rule.MaxOccurrences
	}
	if rule.EndDate != nil {
		endDate = rule.EndDate.Format(domain.DateFormat)
	}

	return []interface{}{string(rule.Pattern), weekdays, interval, maxOccurrences, endDate}
}

func decodeRecurrence(
	pattern sql.NullString,
	weekdays pq.Int64Array,
	intervalDays, maxOccurrences sql.NullInt64,
	endDate sql.NullTime,
) *domain.RecurrenceRule {
	if !pattern.Valid || pattern.String == "" {
		return nil
	}

	rule := &domain.RecurrenceRule{Pattern: domain.RecurrencePattern(pattern.String)}
	for _, d := range weekdays {
		rule.Weekdays = append(rule.Weekdays, domain.Weekday(d))
	}
	if intervalDays.Valid {
		rule.IntervalDays = int(intervalDays.Int64)
	}
	if maxOccurrences.Valid {
		n := int(maxOccurrences.Int64)
		rule.MaxOccurrences = &n
	}
	if endDate.Valid {
		d := endDate.Time
		rule.EndDate = &d
	}

	return rule
}

// mapWriteError переводит ошибки ограничений PostgreSQL в ошибки репозитория
func mapWriteError(step string, err error) error {
	switch {
	case pgerrors.IsExclusionViolation(err):
		return fmt.Errorf("%w: %s: %v", ErrOverlap, step, err)
	case pgerrors.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %s: %v", ErrInvalidReference, step, err)
	default:
		return fmt.Errorf("%w: %s: %v", ErrExecQuery, step, err)
	}
}
