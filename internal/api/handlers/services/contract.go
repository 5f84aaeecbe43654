package services

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/catalog/models"
)

type CatalogService interface {
	Create(ctx context.Context, tenantID int64, tier domain.PlanTier, req *models.CreateServiceRequest) (*models.ServiceResponse, error)
	Deactivate(ctx context.Context, tenantID, id int64) (*models.ServiceResponse, error)
	List(ctx context.Context, tenantID int64, includeInactive bool) ([]*models.ServiceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
