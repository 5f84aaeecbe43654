package usage

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ResourceUsage текущее значение и лимит ресурса; limit -1 - без ограничений
type ResourceUsage struct {
	Current int `json:"current"`
	Limit   int `json:"limit"`
}

// UsageResponse HTTP response model
type UsageResponse struct {
	Period    string                   `json:"period"`
	Plan      string                   `json:"plan"`
	Resources map[string]ResourceUsage `json:"resources"`
	UpdatedAt string                   `json:"updatedAt"`
}

// FeatureResponse HTTP response model
type FeatureResponse struct {
	Feature   string `json:"feature"`
	Available bool   `json:"available"`
}

var resourceKinds = []domain.ResourceKind{
	domain.ResourceUsers,
	domain.ResourceClients,
	domain.ResourceAppointmentsThisMonth,
	domain.ResourceServices,
}

// FromDomainUsage собирает счётчики и лимиты тарифа
func FromDomainUsage(u *domain.UsageCounter, plan domain.PlanLimits) (*UsageResponse, error) {
	resp := &UsageResponse{
		Period:    u.Period,
		Plan:      string(plan.Tier),
		Resources: make(map[string]ResourceUsage, len(resourceKinds)),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
	for _, kind := range resourceKinds {
		limit, err := plan.Limit(kind)
		if err != nil {
			return nil, err
		}
		resp.Resources[string(kind)] = ResourceUsage{Current: u.Count(kind), Limit: limit}
	}
	return resp, nil
}
