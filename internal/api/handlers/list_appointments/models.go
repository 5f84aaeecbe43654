package list_appointments

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// ToServiceRequest строит фильтр из query параметров.
// from и to - даты включительно в часовом поясе арендатора.
func ToServiceRequest(tenantID int64, query url.Values, loc *time.Location) (*models.ListAppointmentsRequest, error) {
	req := &models.ListAppointmentsRequest{TenantID: tenantID}

	if s := query.Get("from"); s != "" {
		from, err := time.ParseInLocation(domain.DateFormat, s, loc)
		if err != nil {
			return nil, fmt.Errorf("from: %w", err)
		}
		req.From = &from
	}

	if s := query.Get("to"); s != "" {
		to, err := time.ParseInLocation(domain.DateFormat, s, loc)
		if err != nil {
			return nil, fmt.Errorf("to: %w", err)
		}
		to = to.AddDate(0, 0, 1)
		req.To = &to
	}

	if s := query.Get("clientId"); s != "" {
		clientID, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("clientId: %w", err)
		}
		req.ClientID = &clientID
	}

	if s := query.Get("state"); s != "" {
		req.State = &s
	}

	if s := query.Get("includeCanceled"); s != "" {
		include, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("includeCanceled: %w", err)
		}
		req.IncludeCanceled = include
	}

	return req, nil
}
