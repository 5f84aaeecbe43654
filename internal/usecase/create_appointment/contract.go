package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/reminders"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	ListByDate(ctx context.Context, tenantID int64, date time.Time) ([]*domain.Appointment, error)
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

// QuotaService интерфейс проверки лимитов тарифа
type QuotaService interface {
	CheckAppointments(ctx context.Context, tenantID int64, tier domain.PlanTier, starts []time.Time) error
	RefreshUsage(ctx context.Context, tenantID int64) (*domain.UsageCounter, error)
	HasFeature(tier domain.PlanTier, feature domain.Feature) bool
}

// DayLocker сериализует запись в календарь арендатора на дату
type DayLocker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// ReminderScheduler ставит напоминание о записи в очередь
type ReminderScheduler interface {
	ScheduleWithGracefulDegradation(ctx context.Context, a *domain.Appointment, channel reminders.Channel)
}

// Metrics доменные метрики
type Metrics interface {
	IncAppointmentsCreated(kind string, n int)
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
