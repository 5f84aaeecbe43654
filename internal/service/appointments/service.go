package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// Service сервис для работы с записями и сериями
type Service struct {
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		location:        location,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает запись арендатора. Чужая запись неотличима от несуществующей.
func (s *Service) GetByID(ctx context.Context, tenantID, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for tenant=%d", id, tenantID)

	a, err := s.get(ctx, "GetByID", tenantID, id)
	if err != nil {
		return nil, err
	}

	return models.FromDomainAppointment(a, s.location), nil
}

// List получает записи арендатора с фильтрацией
func (s *Service) List(ctx context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("List: fetching appointments for tenant=%d", req.TenantID)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter for tenant=%d: %v", req.TenantID, err)
		return nil, ErrInvalidInput
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		s.logger.Warn("List: empty period for tenant=%d", req.TenantID)
		return nil, ErrInvalidInput
	}

	list, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d appointments for tenant=%d", len(list), req.TenantID)
	return models.FromDomainAppointmentList(list, s.location), nil
}

// FindConflict ищет активную запись на дату начала, пересекающую [start, end).
// excludeID исключает саму редактируемую запись.
func (s *Service) FindConflict(ctx context.Context, tenantID int64, start, end time.Time, excludeID *int64) (*domain.Appointment, error) {
	existing, err := s.appointmentRepo.ListByDate(ctx, tenantID, start.In(s.location))
	if err != nil {
		s.logger.Error("FindConflict: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: FindConflict - repository error: %v", ErrInternal, err)
	}

	return scheduling.FindConflict(start, end, existing, excludeID), nil
}

// HasConflict true, если интервал пересекает активную запись
func (s *Service) HasConflict(ctx context.Context, tenantID int64, start, end time.Time, excludeID *int64) (bool, error) {
	conflict, err := s.FindConflict(ctx, tenantID, start, end, excludeID)
	if err != nil {
		return false, err
	}
	return conflict != nil, nil
}

// ChangeState переводит запись в новый статус (только вперёд, отмена из любого нетерминального)
func (s *Service) ChangeState(ctx context.Context, tenantID, id int64, next domain.AppointmentState) (*models.AppointmentResponse, error) {
	s.logger.Info("ChangeState: appointment id=%d, tenant=%d, state=%s", id, tenantID, next)

	var result *domain.Appointment
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		a, err := s.get(txCtx, "ChangeState", tenantID, id)
		if err != nil {
			return err
		}

		if !a.State.CanTransitionTo(next) {
			s.logger.Warn("ChangeState: appointment id=%d cannot move %s -> %s", id, a.State, next)
			return ErrInvalidTransition
		}

		if err := s.appointmentRepo.UpdateState(txCtx, tenantID, id, next); err != nil {
			s.logger.Error("ChangeState: failed to update appointment id=%d: %v", id, err)
			return fmt.Errorf("%w: ChangeState - update state: %v", ErrInternal, err)
		}

		a.State = next
		result = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ChangeState: appointment id=%d is now %s", id, next)
	return models.FromDomainAppointment(result, s.location), nil
}

// Cancel отменяет запись
func (s *Service) Cancel(ctx context.Context, tenantID, id int64) (*models.AppointmentResponse, error) {
	return s.ChangeState(ctx, tenantID, id, domain.StateCanceled)
}

// GetSeries возвращает родителя серии и всех её детей
func (s *Service) GetSeries(ctx context.Context, tenantID, parentID int64) (*models.SeriesResponse, error) {
	s.logger.Info("GetSeries: parent id=%d, tenant=%d", parentID, tenantID)

	parent, err := s.getParent(ctx, "GetSeries", tenantID, parentID)
	if err != nil {
		return nil, err
	}

	children, err := s.appointmentRepo.ListSeries(ctx, tenantID, parentID)
	if err != nil {
		s.logger.Error("GetSeries: repository error for parent id=%d: %v", parentID, err)
		return nil, fmt.Errorf("%w: GetSeries - list series: %v", ErrInternal, err)
	}

	return &models.SeriesResponse{
		Parent:   models.FromDomainAppointment(parent, s.location),
		Children: models.FromDomainAppointmentList(children, s.location).Appointments,
	}, nil
}

// CancelSeries отменяет будущих детей серии. Родитель, прошедшие и уже отменённые дети не меняются.
func (s *Service) CancelSeries(ctx context.Context, tenantID, parentID int64) (*models.SeriesUpdateResponse, error) {
	s.logger.Info("CancelSeries: parent id=%d, tenant=%d", parentID, tenantID)

	canceled := domain.StateCanceled
	return s.applyToSeries(ctx, "CancelSeries", tenantID, parentID, domain.SeriesPatch{State: &canceled})
}

// UpdateSeries применяет notes/price/state к будущим детям серии.
// Если переход статуса для ребёнка недопустим, статус не меняется, notes/price применяются.
func (s *Service) UpdateSeries(ctx context.Context, tenantID, parentID int64, patch domain.SeriesPatch) (*models.SeriesUpdateResponse, error) {
	s.logger.Info("UpdateSeries: parent id=%d, tenant=%d", parentID, tenantID)

	if err := validateSeriesPatch(patch); err != nil {
		s.logger.Warn("UpdateSeries: invalid patch for parent id=%d: %v", parentID, err)
		return nil, err
	}

	return s.applyToSeries(ctx, "UpdateSeries", tenantID, parentID, patch)
}

func (s *Service) applyToSeries(ctx context.Context, op string, tenantID, parentID int64, patch domain.SeriesPatch) (*models.SeriesUpdateResponse, error) {
	now := s.timeProvider.Now()
	affected := 0

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.getParent(txCtx, op, tenantID, parentID); err != nil {
			return err
		}

		children, err := s.appointmentRepo.ListSeries(txCtx, tenantID, parentID)
		if err != nil {
			s.logger.Error("%s: failed to list series parent id=%d: %v", op, parentID, err)
			return fmt.Errorf("%w: %s - list series: %v", ErrInternal, op, err)
		}

		for _, child := range children {
			if !child.IsActive() || !child.StartAt.After(now) {
				continue
			}
			childPatch := patch
			if patch.State != nil && !child.State.CanTransitionTo(*patch.State) {
				childPatch.State = nil
			}
			if childPatch.IsEmpty() {
				continue
			}

			if err := s.applyPatch(txCtx, child, childPatch); err != nil {
				s.logger.Error("%s: failed to update child id=%d: %v", op, child.ID, err)
				return fmt.Errorf("%w: %s - update child: %v", ErrInternal, op, err)
			}
			affected++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("%s: parent id=%d, affected %d children", op, parentID, affected)
	return &models.SeriesUpdateResponse{ParentID: parentID, Affected: affected}, nil
}

// applyPatch сохраняет изменения одного ребёнка; смена только статуса идёт лёгким UPDATE
func (s *Service) applyPatch(ctx context.Context, child *domain.Appointment, patch domain.SeriesPatch) error {
	if patch.Notes == nil && patch.Price == nil {
		return s.appointmentRepo.UpdateState(ctx, child.TenantID, child.ID, *patch.State)
	}

	if patch.Notes != nil {
		child.Notes = patch.Notes
	}
	if patch.Price != nil {
		child.Price = *patch.Price
	}
	if patch.State != nil {
		child.State = *patch.State
	}
	// appointment_date считается от StartAt в зоне арендатора
	child.StartAt = child.StartAt.In(s.location)
	child.EndAt = child.EndAt.In(s.location)

	return s.appointmentRepo.Update(ctx, child, false)
}

func (s *Service) get(ctx context.Context, op string, tenantID, id int64) (*domain.Appointment, error) {
	a, err := s.appointmentRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found for tenant=%d", op, id, tenantID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return a, nil
}

func (s *Service) getParent(ctx context.Context, op string, tenantID, parentID int64) (*domain.Appointment, error) {
	parent, err := s.get(ctx, op, tenantID, parentID)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, ErrNotSeries
		}
		return nil, err
	}
	if !parent.IsRecurring || parent.IsChild() {
		s.logger.Warn("%s: appointment id=%d is not a series parent", op, parentID)
		return nil, ErrNotSeries
	}
	return parent, nil
}

func validateSeriesPatch(patch domain.SeriesPatch) error {
	if patch.IsEmpty() {
		return ErrEmptyPatch
	}
	if patch.Notes != nil && len([]rune(*patch.Notes)) > domain.MaxNotesLength {
		return domain.NewError(domain.ErrBadRequest, fmt.Sprintf("notes must be at most %d characters", domain.MaxNotesLength))
	}
	if patch.Price != nil && patch.Price.IsNegative() {
		return domain.NewError(domain.ErrBadRequest, "price must not be negative")
	}
	return nil
}
