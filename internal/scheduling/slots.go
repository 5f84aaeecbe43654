package scheduling

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

var (
	// ErrInvalidGrid шаг сетки вне допустимого диапазона
	ErrInvalidGrid = errors.New("scheduling: invalid grid increment")

	// ErrInvalidDuration суммарная длительность услуг не положительна
	ErrInvalidDuration = errors.New("scheduling: duration must be positive")

	// ErrInvalidWorkingHours время закрытия не позже времени открытия
	ErrInvalidWorkingHours = errors.New("scheduling: closing time must be after opening time")
)

// SlotOptions parameters of a single slot walk
type SlotOptions struct {
	GridMinutes   int
	PreferredFrom types.TimeString // empty = no recommendation tagging
	PreferredTo   types.TimeString
	Location      *time.Location
	ExcludeID     *int64 // appointment being edited
}

// Day snapshot of one calendar date of a tenant
type Day struct {
	Date         time.Time
	DayOff       bool
	WorkingHours *domain.WorkingHours
	Appointments []*domain.Appointment // fetched once for the whole walk
}

// GenerateSlots walks the working window of the day from open to close-duration
// (inclusive) in grid steps and returns every start that does not overlap an
// active appointment. The result is ascending and bounded by the window.
//
// Примеры (окно 09:00-12:00, услуга 60 минут, сетка 60 минут, запись 10:00-11:00):
// - 09:00-10:00 → свободно (касается начала записи)
// - 10:00-11:00 → пересечение
// - 11:00-12:00 → свободно (граница close-duration включается)
func GenerateSlots(day Day, durationMinutes int, opts SlotOptions) ([]domain.AvailableSlot, error) {
	if opts.GridMinutes < domain.MinGridMinutes || opts.GridMinutes > domain.MaxGridMinutes {
		return nil, fmt.Errorf("%w: %d minutes", ErrInvalidGrid, opts.GridMinutes)
	}
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: %d minutes", ErrInvalidDuration, durationMinutes)
	}

	slots := make([]domain.AvailableSlot, 0)

	// 1. Выходной день
	if day.DayOff {
		return slots, nil
	}

	// 2. Нет рабочих часов или они выключены
	if !day.WorkingHours.IsOpen() {
		return slots, nil
	}

	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	open, closeAt, err := day.WorkingHours.Window(day.Date, loc)
	if err != nil {
		return nil, err
	}
	if !closeAt.After(open) {
		return nil, ErrInvalidWorkingHours
	}

	preferredFrom, preferredTo, tagging, err := preferredWindow(day.Date, loc, opts)
	if err != nil {
		return nil, err
	}

	duration := time.Duration(durationMinutes) * time.Minute
	step := time.Duration(opts.GridMinutes) * time.Minute
	lastStart := closeAt.Add(-duration)

	// 3. Обход сетки; если длительность больше окна, цикл не выполнится ни разу
	for candidate := open; !candidate.After(lastStart); candidate = candidate.Add(step) {
		end := candidate.Add(duration)
		if HasConflict(candidate, end, day.Appointments, opts.ExcludeID) {
			continue
		}

		slot := domain.AvailableSlot{Start: candidate, End: end}
		if tagging {
			slot.Recommended = !candidate.Before(preferredFrom) && candidate.Before(preferredTo)
		}
		slots = append(slots, slot)
	}

	return slots, nil
}

func preferredWindow(date time.Time, loc *time.Location, opts SlotOptions) (time.Time, time.Time, bool, error) {
	if opts.PreferredFrom.IsZero() || opts.PreferredTo.IsZero() {
		return time.Time{}, time.Time{}, false, nil
	}
	from, err := opts.PreferredFrom.On(date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, false, err
	}
	to, err := opts.PreferredTo.On(date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, false, err
	}
	return from, to, true, nil
}
