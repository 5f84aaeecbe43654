package domain

import "fmt"

// PlanTier subscription tier of a tenant
type PlanTier string

// Unlimited sentinel for plan limits
const Unlimited = -1

// ResourceKind resource counted against plan limits
type ResourceKind string

const (
	ResourceUsers                 ResourceKind = "usuarios"
	ResourceClients               ResourceKind = "clientes"
	ResourceAppointmentsThisMonth ResourceKind = "citas_mes"
	ResourceServices              ResourceKind = "servicios"
)

// ResourceKinds все ресурсы, которые считает Usage Gate
var ResourceKinds = []ResourceKind{
	ResourceUsers,
	ResourceClients,
	ResourceAppointmentsThisMonth,
	ResourceServices,
}

// Label human readable name used in error messages
func (k ResourceKind) Label() string {
	switch k {
	case ResourceUsers:
		return "users"
	case ResourceClients:
		return "clients"
	case ResourceAppointmentsThisMonth:
		return "monthly appointments"
	case ResourceServices:
		return "services"
	default:
		return string(k)
	}
}

// Feature optional capability of a plan
type Feature string

const (
	FeatureSMSWhatsApp     Feature = "sms_whatsapp"
	FeatureAdvancedReports Feature = "reportes_avanzados"
	FeaturePrioritySupport Feature = "soporte_prioritario"
)

// PlanLimits limits and feature flags of a tier
type PlanLimits struct {
	Tier                    PlanTier
	MaxUsers                int
	MaxClients              int
	MaxAppointmentsPerMonth int
	MaxServices             int
	AdvancedReports         bool
	SMSWhatsApp             bool
	PrioritySupport         bool
}

// Limit returns the limit for a resource kind
func (p PlanLimits) Limit(kind ResourceKind) (int, error) {
	switch kind {
	case ResourceUsers:
		return p.MaxUsers, nil
	case ResourceClients:
		return p.MaxClients, nil
	case ResourceAppointmentsThisMonth:
		return p.MaxAppointmentsPerMonth, nil
	case ResourceServices:
		return p.MaxServices, nil
	default:
		return 0, fmt.Errorf("%w: unknown resource kind %q", ErrConfiguration, kind)
	}
}

// HasFeature reports whether the plan carries a feature flag.
// Unknown feature names are a configuration error, never a silent pass.
func (p PlanLimits) HasFeature(feature Feature) (bool, error) {
	switch feature {
	case FeatureSMSWhatsApp:
		return p.SMSWhatsApp, nil
	case FeatureAdvancedReports:
		return p.AdvancedReports, nil
	case FeaturePrioritySupport:
		return p.PrioritySupport, nil
	default:
		return false, fmt.Errorf("%w: unknown feature %q", ErrConfiguration, feature)
	}
}
