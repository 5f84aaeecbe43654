package catalog

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// CatalogRepository интерфейс репозитория услуг
type CatalogRepository interface {
	Create(ctx context.Context, s *domain.Service) (*domain.Service, error)
	GetByID(ctx context.Context, tenantID, id int64) (*domain.Service, error)
	List(ctx context.Context, tenantID int64, includeInactive bool) ([]*domain.Service, error)
	SetState(ctx context.Context, tenantID, id int64, state domain.ServiceState) error
}

// QuotaService интерфейс проверки лимитов тарифа
type QuotaService interface {
	CheckLimit(ctx context.Context, tenantID int64, tier domain.PlanTier, kind domain.ResourceKind) error
	RefreshUsage(ctx context.Context, tenantID int64) (*domain.UsageCounter, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
