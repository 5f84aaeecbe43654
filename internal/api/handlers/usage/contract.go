package usage

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

type QuotaService interface {
	Plan(tier domain.PlanTier) (domain.PlanLimits, error)
	GetUsage(ctx context.Context, tenantID int64) (*domain.UsageCounter, error)
	RequireFeature(tier domain.PlanTier, feature domain.Feature) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
