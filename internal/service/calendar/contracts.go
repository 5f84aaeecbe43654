package calendar

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// CalendarRepository интерфейс репозитория рабочих часов и выходных
type CalendarRepository interface {
	GetWorkingHours(ctx context.Context, tenantID int64, weekday domain.Weekday) (*domain.WorkingHours, error)
	ListWorkingHours(ctx context.Context, tenantID int64) ([]*domain.WorkingHours, error)
	CreateWorkingHours(ctx context.Context, wh *domain.WorkingHours) (*domain.WorkingHours, error)
	UpdateWorkingHours(ctx context.Context, wh *domain.WorkingHours) error
	ListDaysOff(ctx context.Context, tenantID int64, from *time.Time) ([]*domain.DayOff, error)
	CreateDayOff(ctx context.Context, dayOff *domain.DayOff) (*domain.DayOff, error)
	DeleteDayOff(ctx context.Context, tenantID int64, date time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
