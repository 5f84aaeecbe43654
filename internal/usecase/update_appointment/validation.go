package update_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	calendarRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/calendar"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TenantID <= 0 || req.AppointmentID <= 0 {
		return fmt.Errorf("%w: tenantID and appointmentID must be positive", ErrInvalidInput)
	}

	p := req.Patch
	if p.ClientID == nil && p.ServiceIDs == nil && p.StartAt == nil && p.Notes == nil && p.Price == nil {
		return ErrEmptyPatch
	}

	if p.ClientID != nil && *p.ClientID <= 0 {
		return fmt.Errorf("%w: clientId must be positive", ErrInvalidInput)
	}

	if p.ServiceIDs != nil {
		if len(p.ServiceIDs) == 0 || len(p.ServiceIDs) > domain.MaxServicesPerAppointment {
			return fmt.Errorf("%w: an appointment needs 1-%d services", ErrInvalidInput, domain.MaxServicesPerAppointment)
		}
		seen := make(map[int64]struct{}, len(p.ServiceIDs))
		for _, id := range p.ServiceIDs {
			if id <= 0 {
				return fmt.Errorf("%w: serviceIds must be positive", ErrInvalidInput)
			}
			if _, ok := seen[id]; ok {
				return fmt.Errorf("%w: duplicate service id %d", ErrInvalidInput, id)
			}
			seen[id] = struct{}{}
		}
	}

	if p.StartAt != nil && p.StartAt.IsZero() {
		return fmt.Errorf("%w: startAt must not be empty", ErrInvalidInput)
	}

	if p.Notes != nil && len([]rune(*p.Notes)) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if p.Price != nil && p.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	return nil
}

// resolveServices собирает строки услуг в порядке запроса
func resolveServices(ids []int64, services []*domain.Service) ([]domain.ServiceLine, error) {
	byID := make(map[int64]*domain.Service, len(services))
	for _, s := range services {
		byID[s.ID] = s
	}

	lines := make([]domain.ServiceLine, 0, len(ids))
	for _, id := range ids {
		s, ok := byID[id]
		if !ok {
			return nil, ErrServiceNotFound
		}
		if !s.IsActive() {
			return nil, ErrServiceInactive
		}
		lines = append(lines, s.Line())
	}
	return lines, nil
}

// checkBusinessDay проверяет выходной и что [start, end) помещается в рабочие часы
func checkBusinessDay(ctx context.Context, repo CalendarRepository, tenantID int64, start, end time.Time) error {
	_, err := repo.GetDayOff(ctx, tenantID, start)
	if err == nil {
		return ErrDayOff
	}
	if !errors.Is(err, calendarRepo.ErrDayOffNotFound) {
		return fmt.Errorf("%w: failed to get day off: %v", ErrInternal, err)
	}

	wh, err := repo.GetWorkingHours(ctx, tenantID, domain.WeekdayOf(start))
	if err != nil {
		if errors.Is(err, calendarRepo.ErrWorkingHoursNotFound) {
			return ErrDayOff
		}
		return fmt.Errorf("%w: failed to get working hours: %v", ErrInternal, err)
	}
	if !wh.IsOpen() {
		return ErrDayOff
	}

	open, closeAt, err := wh.Window(start, start.Location())
	if err != nil {
		return fmt.Errorf("%w: invalid working hours id=%d: %v", ErrInternal, wh.ID, err)
	}
	if start.Before(open) || end.After(closeAt) {
		return ErrOutsideWorkingHours
	}
	return nil
}
