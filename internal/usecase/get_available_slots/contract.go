package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// ListByDate активные записи арендатора на календарную дату
	ListByDate(ctx context.Context, tenantID int64, date time.Time) ([]*domain.Appointment, error)
}

// CatalogRepository интерфейс репозитория услуг
type CatalogRepository interface {
	GetByIDs(ctx context.Context, tenantID int64, ids []int64) ([]*domain.Service, error)
}

// CalendarRepository интерфейс репозитория рабочих часов и выходных
type CalendarRepository interface {
	GetWorkingHours(ctx context.Context, tenantID int64, weekday domain.Weekday) (*domain.WorkingHours, error)
	GetDayOff(ctx context.Context, tenantID int64, date time.Time) (*domain.DayOff, error)
}

// Metrics доменные метрики
type Metrics interface {
	ObserveSlots(grid string, count int)
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
