package domain

import "time"

// PeriodFormat billing period key format (YYYY-MM)
const PeriodFormat = "2006-01"

// PeriodOf returns the billing period key of t
func PeriodOf(t time.Time) string {
	return t.Format(PeriodFormat)
}

// UsageCounter resource usage of a tenant in a billing period
type UsageCounter struct {
	TenantID              int64
	Period                string
	Users                 int
	Clients               int
	AppointmentsThisMonth int
	Services              int
	UpdatedAt             time.Time
}

// Count returns the counter for a resource kind
func (u *UsageCounter) Count(kind ResourceKind) int {
	switch kind {
	case ResourceUsers:
		return u.Users
	case ResourceClients:
		return u.Clients
	case ResourceAppointmentsThisMonth:
		return u.AppointmentsThisMonth
	case ResourceServices:
		return u.Services
	default:
		return 0
	}
}
