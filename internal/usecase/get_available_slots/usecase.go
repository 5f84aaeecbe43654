package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	calendarRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/calendar"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// UseCase use case для получения доступных слотов
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalogRepo     CatalogRepository
	calendarRepo    CalendarRepository
	metrics         Metrics
	options         Options
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	catalogRepo CatalogRepository,
	calendarRepo CalendarRepository,
	metrics Metrics,
	options Options,
	logger Logger,
) *UseCase {
	if options.Location == nil {
		options.Location = time.UTC
	}
	if options.GridMinutes == 0 {
		options.GridMinutes = domain.DefaultGridMinutes
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		catalogRepo:     catalogRepo,
		calendarRepo:    calendarRepo,
		metrics:         metrics,
		options:         options,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: tenant=%d, date=%s, services=%v",
		req.TenantID, req.Date.Format(domain.DateFormat), req.ServiceIDs)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата в часовом поясе арендатора, прошлые даты не показываем
	now := uc.timeProvider.Now().In(uc.options.Location)
	date := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, uc.options.Location)
	if isDateInPast(date, now) {
		uc.logger.Warn("GetAvailableSlots: date %s is in the past", date.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 3. Услуги и суммарная длительность
	services, err := uc.catalogRepo.GetByIDs(ctx, req.TenantID, req.ServiceIDs)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get services %v: %v", req.ServiceIDs, err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}
	duration, err := totalDuration(req.ServiceIDs, services)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: services %v rejected for tenant=%d: %v", req.ServiceIDs, req.TenantID, err)
		return nil, err
	}

	response := &Response{
		Date:            date,
		DurationMinutes: duration,
		GridMinutes:     uc.options.GridMinutes,
		Slots:           []Slot{},
	}

	// 4. Снимок дня: выходной, рабочие часы, записи
	day, err := uc.loadDay(ctx, req.TenantID, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: tenant=%d, date=%s: %v", req.TenantID, date.Format(domain.DateFormat), err)
		return nil, err
	}
	if day.DayOff || !day.WorkingHours.IsOpen() {
		uc.logger.Info("GetAvailableSlots: tenant=%d is closed on %s", req.TenantID, date.Format(domain.DateFormat))
		uc.metrics.ObserveSlots(uc.gridLabel(), 0)
		return response, nil
	}

	// 5. Генерируем слоты
	slots, err := scheduling.GenerateSlots(day, duration, scheduling.SlotOptions{
		GridMinutes:   uc.options.GridMinutes,
		PreferredFrom: uc.options.PreferredFrom,
		PreferredTo:   uc.options.PreferredTo,
		Location:      uc.options.Location,
		ExcludeID:     req.ExcludeAppointmentID,
	})
	if err != nil {
		if errors.Is(err, scheduling.ErrInvalidWorkingHours) {
			uc.logger.Warn("GetAvailableSlots: tenant=%d has invalid working hours id=%d", req.TenantID, day.WorkingHours.ID)
			uc.metrics.ObserveSlots(uc.gridLabel(), 0)
			return response, nil
		}
		uc.logger.Error("GetAvailableSlots: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	// 6. Сегодня не предлагаем уже прошедшее время
	for _, s := range slots {
		if domain.SameDate(date, now) && !s.Start.After(now) {
			continue
		}
		response.Slots = append(response.Slots, Slot{
			StartTime:   types.NewTimeString(s.Start),
			EndTime:     types.NewTimeString(s.End),
			Recommended: s.Recommended,
		})
	}

	uc.metrics.ObserveSlots(uc.gridLabel(), len(response.Slots))
	uc.logger.Info("GetAvailableSlots: generated %d slots for tenant=%d, date=%s, duration=%d",
		len(response.Slots), req.TenantID, date.Format(domain.DateFormat), duration)

	return response, nil
}

// loadDay читает выходной, рабочие часы и записи дня одним снимком
func (uc *UseCase) loadDay(ctx context.Context, tenantID int64, date time.Time) (scheduling.Day, error) {
	day := scheduling.Day{Date: date}

	_, err := uc.calendarRepo.GetDayOff(ctx, tenantID, date)
	switch {
	case err == nil:
		day.DayOff = true
		return day, nil
	case !errors.Is(err, calendarRepo.ErrDayOffNotFound):
		return day, fmt.Errorf("%w: failed to get day off: %v", ErrInternal, err)
	}

	wh, err := uc.calendarRepo.GetWorkingHours(ctx, tenantID, domain.WeekdayOf(date))
	if err != nil {
		if errors.Is(err, calendarRepo.ErrWorkingHoursNotFound) {
			return day, nil
		}
		return day, fmt.Errorf("%w: failed to get working hours: %v", ErrInternal, err)
	}
	day.WorkingHours = wh
	if !wh.IsOpen() {
		return day, nil
	}

	appointments, err := uc.appointmentRepo.ListByDate(ctx, tenantID, date)
	if err != nil {
		return day, fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
	}
	day.Appointments = appointments

	return day, nil
}

func (uc *UseCase) gridLabel() string {
	return strconv.Itoa(uc.options.GridMinutes)
}
