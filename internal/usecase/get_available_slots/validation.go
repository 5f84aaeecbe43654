package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}
	if len(req.ServiceIDs) > domain.MaxServicesPerAppointment {
		return fmt.Errorf("%w: at most %d services", ErrInvalidInput, domain.MaxServicesPerAppointment)
	}
	for _, id := range req.ServiceIDs {
		if id <= 0 {
			return fmt.Errorf("%w: serviceIds must be positive", ErrInvalidInput)
		}
	}

	if req.ExcludeAppointmentID != nil && *req.ExcludeAppointmentID <= 0 {
		return fmt.Errorf("%w: excludeAppointmentId must be positive", ErrInvalidInput)
	}

	return nil
}

// totalDuration проверяет услуги и суммирует их длительность.
// Повтор одной услуги в запросе учитывается столько раз, сколько указан.
func totalDuration(ids []int64, services []*domain.Service) (int, error) {
	byID := make(map[int64]*domain.Service, len(services))
	for _, s := range services {
		byID[s.ID] = s
	}

	total := 0
	for _, id := range ids {
		s, ok := byID[id]
		if !ok {
			return 0, ErrServiceNotFound
		}
		if !s.IsActive() {
			return 0, ErrServiceInactive
		}
		total += s.DurationMinutes
	}
	return total, nil
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	return domain.DateOnly(date).Before(domain.DateOnly(now.In(date.Location())))
}
