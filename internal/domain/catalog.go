package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceState lifecycle of a catalog service (soft delete = inactive)
type ServiceState string

const (
	ServiceActive   ServiceState = "active"
	ServiceInactive ServiceState = "inactive"
)

// Service an item of the tenant's catalog
type Service struct {
	ID              int64
	TenantID        int64
	Name            string
	DurationMinutes int
	Price           decimal.Decimal
	State           ServiceState
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (s *Service) IsActive() bool {
	return s.State == ServiceActive
}

// Line snapshots the service for an appointment
func (s *Service) Line() ServiceLine {
	return ServiceLine{
		ServiceID:       s.ID,
		Name:            s.Name,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
	}
}

// Client a customer of the tenant
type Client struct {
	ID        int64
	TenantID  int64
	Name      string
	Phone     *string
	Email     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Tenant a business account, the unit of data isolation
type Tenant struct {
	ID        int64
	Name      string
	PlanTier  PlanTier
	Active    bool
	CreatedAt time.Time
}
