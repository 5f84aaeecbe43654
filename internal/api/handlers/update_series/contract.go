package update_series

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

type SeriesService interface {
	UpdateSeries(ctx context.Context, tenantID, parentID int64, patch domain.SeriesPatch) (*models.SeriesUpdateResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
