package tenant

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий арендаторов и их пользователей
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория арендаторов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает активного арендатора
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Tenant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "plan_tier", "active", "created_at").
		From("tenants").
		Where(squirrel.Eq{"id": id, "active": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var t domain.Tenant
	err = executor.QueryRowContext(ctx, query, args...).Scan(&t.ID, &t.Name, &t.PlanTier, &t.Active, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan tenant: %v", ErrScanRow, err)
	}

	return &t, nil
}

// CountActiveUsers считает активных пользователей арендатора
func (r *Repository) CountActiveUsers(ctx context.Context, tenantID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("users").
		Where(squirrel.Eq{"tenant_id": tenantID, "active": true}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveUsers - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveUsers - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}
