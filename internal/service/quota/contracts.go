package quota

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// TenantRepository интерфейс репозитория арендаторов
type TenantRepository interface {
	CountActiveUsers(ctx context.Context, tenantID int64) (int, error)
}

// ClientRepository интерфейс репозитория клиентов
type ClientRepository interface {
	Count(ctx context.Context, tenantID int64) (int, error)
}

// CatalogRepository интерфейс репозитория услуг
type CatalogRepository interface {
	CountActive(ctx context.Context, tenantID int64) (int, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	CountInPeriod(ctx context.Context, tenantID int64, from, to time.Time) (int, error)
}

// UsageRepository интерфейс репозитория счётчиков использования
type UsageRepository interface {
	Get(ctx context.Context, tenantID int64, period string) (*domain.UsageCounter, error)
	EnsurePeriod(ctx context.Context, tenantID int64, period string) error
	Save(ctx context.Context, u *domain.UsageCounter) error
}

// UsageCache интерфейс кэша счётчиков использования
type UsageCache interface {
	Get(ctx context.Context, tenantID int64, period string) (*domain.UsageCounter, error)
	Set(ctx context.Context, u *domain.UsageCounter) error
}

// Metrics счётчик отказов по лимитам
type Metrics interface {
	IncQuotaRejection(resource string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
