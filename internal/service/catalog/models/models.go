package models

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// CreateServiceRequest новая услуга
type CreateServiceRequest struct {
	Name            string          `json:"name"`
	DurationMinutes int             `json:"durationMinutes"`
	Price           decimal.Decimal `json:"price"`
}

// ServiceResponse услуга каталога
type ServiceResponse struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	DurationMinutes int             `json:"durationMinutes"`
	Price           decimal.Decimal `json:"price"`
	State           string          `json:"state"`
}

// FromDomainService конвертирует услугу в response
func FromDomainService(s *domain.Service) *ServiceResponse {
	return &ServiceResponse{
		ID:              s.ID,
		Name:            s.Name,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
		State:           string(s.State),
	}
}

// FromDomainServiceList конвертирует список услуг
func FromDomainServiceList(list []*domain.Service) []*ServiceResponse {
	out := make([]*ServiceResponse, 0, len(list))
	for _, s := range list {
		out = append(out, FromDomainService(s))
	}
	return out
}
