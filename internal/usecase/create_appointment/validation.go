package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	calendarRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/calendar"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, maxOccurrences int) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	if req.ClientID <= 0 {
		return fmt.Errorf("%w: clientId must be positive", ErrInvalidInput)
	}

	if err := validateServiceIDs(req.ServiceIDs); err != nil {
		return err
	}

	if req.StartAt.IsZero() {
		return fmt.Errorf("%w: startAt is required", ErrInvalidInput)
	}

	if req.Notes != nil && len([]rune(*req.Notes)) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if req.Price != nil && req.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	if req.Recurrence != nil {
		if err := validateRecurrence(req.Recurrence, req.StartAt, maxOccurrences); err != nil {
			return err
		}
	}

	return nil
}

func validateServiceIDs(ids []int64) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}
	if len(ids) > domain.MaxServicesPerAppointment {
		return fmt.Errorf("%w: at most %d services per appointment", ErrInvalidInput, domain.MaxServicesPerAppointment)
	}

	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return fmt.Errorf("%w: serviceIds must be positive", ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: duplicate service id %d", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func validateRecurrence(rule *domain.RecurrenceRule, start time.Time, maxOccurrences int) error {
	if err := rule.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if rule.MaxOccurrences != nil && *rule.MaxOccurrences > maxOccurrences {
		return fmt.Errorf("%w: max occurrences must not exceed %d", ErrInvalidInput, maxOccurrences)
	}
	if rule.EndDate != nil && domain.DateOnly(*rule.EndDate).Before(domain.DateOnly(start)) {
		return fmt.Errorf("%w: recurrence end date is before the first appointment", ErrInvalidInput)
	}
	return nil
}

// resolveServices собирает строки услуг в порядке запроса.
// Отсутствующая услуга - NotFound, неактивная - BadRequest.
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
	loc := start.Location()

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

	open, closeAt, err := wh.Window(start, loc)
	if err != nil {
		return fmt.Errorf("%w: invalid working hours id=%d: %v", ErrInternal, wh.ID, err)
	}
	if start.Before(open) || end.After(closeAt) {
		return ErrOutsideWorkingHours
	}
	return nil
}
