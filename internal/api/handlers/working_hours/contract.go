package working_hours

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/calendar/models"
)

type CalendarService interface {
	ListWorkingHours(ctx context.Context, tenantID int64) ([]*models.WorkingHoursResponse, error)
	UpsertWorkingHours(ctx context.Context, tenantID int64, req *models.UpsertWorkingHoursRequest) (*models.WorkingHoursResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
