package update_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, tenantID, id int64) (*domain.Appointment, error)
	ListByDate(ctx context.Context, tenantID int64, date time.Time) ([]*domain.Appointment, error)
	Update(ctx context.Context, a *domain.Appointment, replaceLines bool) error
}

// CatalogRepository интерфейс репозитория услуг
type CatalogRepository interface {
	GetByIDs(ctx context.Context, tenantID int64, ids []int64) ([]*domain.Service, error)
}

// ClientRepository интерфейс репозитория клиентов
type ClientRepository interface {
	GetByID(ctx context.Context, tenantID, id int64) (*domain.Client, error)
}

// CalendarRepository интерфейс репозитория рабочих часов и выходных
type CalendarRepository interface {
	GetWorkingHours(ctx context.Context, tenantID int64, weekday domain.Weekday) (*domain.WorkingHours, error)
	GetDayOff(ctx context.Context, tenantID int64, date time.Time) (*domain.DayOff, error)
}

// DayLocker сериализует запись в календарь арендатора на дату
type DayLocker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// Metrics доменные метрики
type Metrics interface {
	IncConflict(operation string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
