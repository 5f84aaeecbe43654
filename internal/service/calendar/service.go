package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	calendarRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/calendar"
	"github.com/m04kA/SMC-AppointmentService/internal/service/calendar/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Service сервис управления рабочими часами и выходными
type Service struct {
	calendarRepo CalendarRepository
	txManager    TransactionManager
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса календаря
func NewService(
	calendarRepo CalendarRepository,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		calendarRepo: calendarRepo,
		txManager:    txManager,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// UpsertWorkingHours создает или заменяет рабочие часы на день недели
func (s *Service) UpsertWorkingHours(ctx context.Context, tenantID int64, req *models.UpsertWorkingHoursRequest) (*models.WorkingHoursResponse, error) {
	s.logger.Info("UpsertWorkingHours: tenant=%d, weekday=%d, %s-%s", tenantID, req.Weekday, req.OpenTime, req.CloseTime)

	wh, err := buildWorkingHours(tenantID, req)
	if err != nil {
		s.logger.Warn("UpsertWorkingHours: validation failed for tenant=%d: %v", tenantID, err)
		return nil, err
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		existing, err := s.calendarRepo.GetWorkingHours(txCtx, tenantID, wh.Weekday)
		if err != nil && !errors.Is(err, calendarRepo.ErrWorkingHoursNotFound) {
			return fmt.Errorf("%w: UpsertWorkingHours - get working hours: %v", ErrInternal, err)
		}

		if existing == nil {
			created, err := s.calendarRepo.CreateWorkingHours(txCtx, wh)
			if err != nil {
				return mapWorkingHoursError("create", err)
			}
			wh = created
			return nil
		}

		wh.ID = existing.ID
		wh.CreatedAt = existing.CreatedAt
		return mapWorkingHoursError("update", s.calendarRepo.UpdateWorkingHours(txCtx, wh))
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			s.logger.Error("UpsertWorkingHours: tenant=%d: %v", tenantID, err)
		} else {
			s.logger.Warn("UpsertWorkingHours: tenant=%d: %v", tenantID, err)
		}
		return nil, err
	}

	s.logger.Info("UpsertWorkingHours: saved id=%d for tenant=%d", wh.ID, tenantID)
	return models.FromDomainWorkingHours(wh), nil
}

// ListWorkingHours возвращает рабочие часы арендатора
func (s *Service) ListWorkingHours(ctx context.Context, tenantID int64) ([]*models.WorkingHoursResponse, error) {
	list, err := s.calendarRepo.ListWorkingHours(ctx, tenantID)
	if err != nil {
		s.logger.Error("ListWorkingHours: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: ListWorkingHours - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainWorkingHoursList(list), nil
}

// AddDayOff добавляет выходной; дата в прошлом отклоняется
func (s *Service) AddDayOff(ctx context.Context, tenantID int64, date time.Time, reason *string) (*models.DayOffResponse, error) {
	s.logger.Info("AddDayOff: tenant=%d, date=%s", tenantID, date.Format(domain.DateFormat))

	today := domain.DateOnly(s.timeProvider.Now().In(s.location))
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, s.location)
	if day.Before(today) {
		s.logger.Warn("AddDayOff: tenant=%d, date %s is in the past", tenantID, date.Format(domain.DateFormat))
		return nil, ErrDayOffInPast
	}
	if reason != nil && len([]rune(*reason)) > domain.MaxNotesLength {
		return nil, ErrReasonTooLong
	}

	created, err := s.calendarRepo.CreateDayOff(ctx, &domain.DayOff{TenantID: tenantID, Date: day, Reason: reason})
	if err != nil {
		if errors.Is(err, calendarRepo.ErrDuplicateDayOff) {
			s.logger.Warn("AddDayOff: tenant=%d already has day off %s", tenantID, date.Format(domain.DateFormat))
			return nil, ErrDayOffExists
		}
		s.logger.Error("AddDayOff: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: AddDayOff - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainDayOff(created), nil
}

// RemoveDayOff удаляет выходной
func (s *Service) RemoveDayOff(ctx context.Context, tenantID int64, date time.Time) error {
	s.logger.Info("RemoveDayOff: tenant=%d, date=%s", tenantID, date.Format(domain.DateFormat))

	if err := s.calendarRepo.DeleteDayOff(ctx, tenantID, date); err != nil {
		if errors.Is(err, calendarRepo.ErrDayOffNotFound) {
			s.logger.Warn("RemoveDayOff: tenant=%d has no day off %s", tenantID, date.Format(domain.DateFormat))
			return ErrDayOffNotFound
		}
		s.logger.Error("RemoveDayOff: repository error for tenant=%d: %v", tenantID, err)
		return fmt.Errorf("%w: RemoveDayOff - repository error: %v", ErrInternal, err)
	}
	return nil
}

// ListDaysOff возвращает выходные начиная с from (nil - все)
func (s *Service) ListDaysOff(ctx context.Context, tenantID int64, from *time.Time) ([]*models.DayOffResponse, error) {
	list, err := s.calendarRepo.ListDaysOff(ctx, tenantID, from)
	if err != nil {
		s.logger.Error("ListDaysOff: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: ListDaysOff - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainDayOffList(list), nil
}

func buildWorkingHours(tenantID int64, req *models.UpsertWorkingHoursRequest) (*domain.WorkingHours, error) {
	weekday := domain.Weekday(req.Weekday)
	if !weekday.IsValid() {
		return nil, ErrInvalidWeekday
	}

	open, err := types.NewTimeStringFromString(req.OpenTime)
	if err != nil {
		return nil, ErrInvalidTime
	}
	closeAt, err := types.NewTimeStringFromString(req.CloseTime)
	if err != nil {
		return nil, ErrInvalidTime
	}
	if !open.IsBefore(closeAt) {
		return nil, ErrCloseBeforeOpen
	}

	return &domain.WorkingHours{
		TenantID:  tenantID,
		Weekday:   weekday,
		OpenTime:  open,
		CloseTime: closeAt,
		Active:    req.IsActive(),
	}, nil
}

func mapWorkingHoursError(step string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, calendarRepo.ErrDuplicateWeekday) {
		return ErrDuplicateWeekday
	}
	return fmt.Errorf("%w: UpsertWorkingHours - %s: %v", ErrInternal, step, err)
}
