package update_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/locker"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	clientRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/client"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// Options настройки use case
type Options struct {
	Location *time.Location
	// RejectPastStarts запрещает перенос на прошедшее время (по умолчанию разрешён)
	RejectPastStarts bool
}

// UseCase use case для изменения одной записи (перенос, состав услуг, клиент, заметки, цена)
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalogRepo     CatalogRepository
	clientRepo      ClientRepository
	calendarRepo    CalendarRepository
	locker          DayLocker
	metrics         Metrics
	txManager       TransactionManager
	options         Options
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	catalogRepo CatalogRepository,
	clientRepo ClientRepository,
	calendarRepo CalendarRepository,
	locker DayLocker,
	metrics Metrics,
	txManager TransactionManager,
	options Options,
	logger Logger,
) *UseCase {
	if options.Location == nil {
		options.Location = time.UTC
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		catalogRepo:     catalogRepo,
		clientRepo:      clientRepo,
		calendarRepo:    calendarRepo,
		locker:          locker,
		metrics:         metrics,
		txManager:       txManager,
		options:         options,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case изменения записи.
// Перенос или смена услуг перепроверяет пересечения, исключая саму запись.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateAppointment: tenant=%d, appointment=%d, reschedule=%t",
		req.TenantID, req.AppointmentID, req.Patch.ChangesSchedule())

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Текущая запись
	current, err := uc.appointmentRepo.GetByID(ctx, req.TenantID, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("UpdateAppointment: appointment id=%d not found for tenant=%d", req.AppointmentID, req.TenantID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("UpdateAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}
	if current.State.IsTerminal() {
		uc.logger.Warn("UpdateAppointment: appointment id=%d is %s", current.ID, current.State)
		return nil, ErrNotEditable
	}

	// 3. Применяем изменения к копии
	updated, err := uc.applyPatch(ctx, current, req)
	if err != nil {
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("UpdateAppointment: appointment id=%d: %v", current.ID, err)
		} else {
			uc.logger.Warn("UpdateAppointment: appointment id=%d: %v", current.ID, err)
		}
		return nil, err
	}
	replaceLines := req.Patch.ServiceIDs != nil

	// 4. Без изменения расписания блокировка дня не нужна
	if !req.Patch.ChangesSchedule() {
		err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
			if err := uc.appointmentRepo.Update(txCtx, updated, replaceLines); err != nil {
				return uc.mapWriteError(err)
			}
			return nil
		})
		if err != nil {
			return nil, uc.handleWriteError(req, err)
		}
		return uc.respond(updated), nil
	}

	// 5. Перенос: рабочий день нового времени, прошедшее время только при включённой настройке
	if uc.options.RejectPastStarts && !updated.StartAt.After(uc.timeProvider.Now()) {
		uc.logger.Warn("UpdateAppointment: new start %s is not in the future", updated.StartAt.Format(time.RFC3339))
		return nil, ErrStartInPast
	}
	if err := checkBusinessDay(ctx, uc.calendarRepo, req.TenantID, updated.StartAt, updated.EndAt); err != nil {
		uc.logger.Warn("UpdateAppointment: appointment id=%d: %v", current.ID, err)
		return nil, err
	}

	// 6. Блокировка новой даты + сериализуемая транзакция
	committed := false
	lockKey := locker.AppointmentsDayKey(req.TenantID, updated.StartAt)
	err = uc.locker.WithLock(ctx, lockKey, func(lockCtx context.Context) error {
		txErr := uc.txManager.DoSerializable(lockCtx, func(txCtx context.Context) error {
			// 6.1. Записи на новую дату с блокировкой строк (FOR UPDATE)
			existing, err := uc.appointmentRepo.ListByDate(txCtx, req.TenantID, updated.StartAt)
			if err != nil {
				return fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
			}

			// 6.2. Пересечения без учёта самой записи
			if conflict := scheduling.FindConflict(updated.StartAt, updated.EndAt, existing, &updated.ID); conflict != nil {
				return domain.NewConflictError(conflict)
			}

			// 6.3. Сохраняем
			if err := uc.appointmentRepo.Update(txCtx, updated, replaceLines); err != nil {
				return uc.mapWriteError(err)
			}
			return nil
		})
		committed = txErr == nil
		return txErr
	})
	if err != nil && !committed {
		return nil, uc.handleWriteError(req, err)
	}
	if err != nil {
		uc.logger.Warn("UpdateAppointment: appointment id=%d updated, lock release failed: %v", updated.ID, err)
	}

	uc.logger.Info("UpdateAppointment: appointment id=%d moved to %s", updated.ID, updated.StartAt.Format(time.RFC3339))
	return uc.respond(updated), nil
}

// applyPatch возвращает копию записи с применёнными изменениями
func (uc *UseCase) applyPatch(ctx context.Context, current *domain.Appointment, req *Request) (*domain.Appointment, error) {
	updated := *current
	updated.StartAt = current.StartAt.In(uc.options.Location)
	p := req.Patch

	if p.ClientID != nil && *p.ClientID != current.ClientID {
		if _, err := uc.clientRepo.GetByID(ctx, req.TenantID, *p.ClientID); err != nil {
			if errors.Is(err, clientRepo.ErrClientNotFound) {
				return nil, ErrClientNotFound
			}
			return nil, fmt.Errorf("%w: failed to get client: %v", ErrInternal, err)
		}
		updated.ClientID = *p.ClientID
	}

	if p.ServiceIDs != nil {
		services, err := uc.catalogRepo.GetByIDs(ctx, req.TenantID, p.ServiceIDs)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
		}
		lines, err := resolveServices(p.ServiceIDs, services)
		if err != nil {
			return nil, err
		}
		updated.Services = lines
		// без явной цены пересчитываем по новому составу
		updated.Price = domain.TotalPrice(lines)
	}

	if p.StartAt != nil {
		updated.StartAt = p.StartAt.In(uc.options.Location)
	}
	updated.EndAt = updated.StartAt.Add(time.Duration(updated.TotalDurationMinutes()) * time.Minute)

	if p.Notes != nil {
		updated.Notes = p.Notes
	}
	if p.Price != nil {
		updated.Price = *p.Price
	}

	if err := updated.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return &updated, nil
}

func (uc *UseCase) mapWriteError(err error) error {
	switch {
	case errors.Is(err, appointmentRepo.ErrOverlap):
		return ErrOverlap
	case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
		return ErrAppointmentNotFound
	case errors.Is(err, appointmentRepo.ErrInvalidReference):
		return ErrServiceNotFound
	default:
		return fmt.Errorf("%w: failed to update appointment: %v", ErrInternal, err)
	}
}

func (uc *UseCase) handleWriteError(req *Request, err error) error {
	switch {
	case errors.Is(err, domain.ErrConflict):
		uc.metrics.IncConflict("update")
		uc.logger.Warn("UpdateAppointment: appointment id=%d: %v", req.AppointmentID, err)
		return err
	case errors.Is(err, locker.ErrLockTimeout):
		uc.metrics.IncConflict("update")
		uc.logger.Warn("UpdateAppointment: calendar of tenant=%d is busy: %v", req.TenantID, err)
		return ErrBusy
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrBadRequest):
		uc.logger.Warn("UpdateAppointment: appointment id=%d: %v", req.AppointmentID, err)
		return err
	case errors.Is(err, ErrInternal):
		uc.logger.Error("UpdateAppointment: appointment id=%d: %v", req.AppointmentID, err)
		return err
	default:
		uc.logger.Error("UpdateAppointment: appointment id=%d: %v", req.AppointmentID, err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

func (uc *UseCase) respond(a *domain.Appointment) *Response {
	return &Response{Appointment: models.FromDomainAppointment(a, uc.options.Location)}
}
