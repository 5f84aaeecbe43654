package cancel_series

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

type SeriesService interface {
	CancelSeries(ctx context.Context, tenantID, parentID int64) (*models.SeriesUpdateResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
