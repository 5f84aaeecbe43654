package days_off

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/service/calendar/models"
)

type CalendarService interface {
	ListDaysOff(ctx context.Context, tenantID int64, from *time.Time) ([]*models.DayOffResponse, error)
	AddDayOff(ctx context.Context, tenantID int64, date time.Time, reason *string) (*models.DayOffResponse, error)
	RemoveDayOff(ctx context.Context, tenantID int64, date time.Time) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
