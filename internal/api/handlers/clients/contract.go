package clients

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/clients/models"
)

type ClientService interface {
	Create(ctx context.Context, tenantID int64, tier domain.PlanTier, req *models.CreateClientRequest) (*models.ClientResponse, error)
	GetByID(ctx context.Context, tenantID, id int64) (*models.ClientResponse, error)
	List(ctx context.Context, tenantID int64, limit, offset uint64) (*models.ClientListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
