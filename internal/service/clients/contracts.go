package clients

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ClientRepository интерфейс репозитория клиентов
type ClientRepository interface {
	Create(ctx context.Context, c *domain.Client) (*domain.Client, error)
	GetByID(ctx context.Context, tenantID, id int64) (*domain.Client, error)
	List(ctx context.Context, tenantID int64, limit, offset uint64) ([]*domain.Client, error)
	Count(ctx context.Context, tenantID int64) (int, error)
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
