package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/locker"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	clientRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/client"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/reminders"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

const (
	metricKindSingle = "single"
	metricKindSeries = "series"
)

// Options параметры планирования
type Options struct {
	Location *time.Location
	// ValidateRecurringChildren проверять детей серии на пересечения и пропускать конфликтные
	ValidateRecurringChildren bool
	// MaxOccurrences верхняя граница детей серии, которую может запросить клиент
	MaxOccurrences int
	// RejectPastStarts запрещает прямую запись на прошедшее время (по умолчанию разрешена)
	RejectPastStarts bool
}

// UseCase use case для создания записи (разовой или серии)
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalogRepo     CatalogRepository
	clientRepo      ClientRepository
	calendarRepo    CalendarRepository
	quota           QuotaService
	locker          DayLocker
	reminders       ReminderScheduler
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
	quota QuotaService,
	locker DayLocker,
	reminders ReminderScheduler,
	metrics Metrics,
	txManager TransactionManager,
	options Options,
	logger Logger,
) *UseCase {
	if options.Location == nil {
		options.Location = time.UTC
	}
	if options.MaxOccurrences <= 0 || options.MaxOccurrences > domain.MaxRecurrenceOccurrences {
		options.MaxOccurrences = domain.MaxRecurrenceOccurrences
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		catalogRepo:     catalogRepo,
		clientRepo:      clientRepo,
		calendarRepo:    calendarRepo,
		quota:           quota,
		locker:          locker,
		reminders:       reminders,
		metrics:         metrics,
		txManager:       txManager,
		options:         options,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи.
// Проверка пересечений и запись выполняются под блокировкой дня в сериализуемой транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: tenant=%d, client=%d, services=%v, start=%s, recurring=%t",
		req.TenantID, req.ClientID, req.ServiceIDs, req.StartAt.Format(time.RFC3339), req.Recurrence != nil)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.options.MaxOccurrences); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Прошедшее время отклоняем только при включённой настройке
	start := req.StartAt.In(uc.options.Location)
	if uc.options.RejectPastStarts && !start.After(uc.timeProvider.Now()) {
		uc.logger.Warn("CreateAppointment: start %s is not in the future", start.Format(time.RFC3339))
		return nil, ErrStartInPast
	}

	// 3. Клиент должен принадлежать арендатору
	if _, err := uc.clientRepo.GetByID(ctx, req.TenantID, req.ClientID); err != nil {
		if errors.Is(err, clientRepo.ErrClientNotFound) {
			uc.logger.Warn("CreateAppointment: client id=%d not found for tenant=%d", req.ClientID, req.TenantID)
			return nil, ErrClientNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get client id=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: failed to get client: %v", ErrInternal, err)
	}

	// 4. Услуги: все найдены и активны, длительность и цена фиксируются на момент записи
	services, err := uc.catalogRepo.GetByIDs(ctx, req.TenantID, req.ServiceIDs)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to get services %v: %v", req.ServiceIDs, err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}
	lines, err := resolveServices(req.ServiceIDs, services)
	if err != nil {
		uc.logger.Warn("CreateAppointment: services %v rejected for tenant=%d: %v", req.ServiceIDs, req.TenantID, err)
		return nil, err
	}

	// 5. Собираем запись
	appointment := buildAppointment(req, start, lines)
	if err := appointment.Validate(); err != nil {
		uc.logger.Warn("CreateAppointment: invalid appointment: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 6. Лимит записей в месяц: родитель и все дети серии
	starts, err := seriesStarts(appointment)
	if err != nil {
		uc.logger.Error("CreateAppointment: %v", err)
		return nil, err
	}
	if err := uc.quota.CheckAppointments(ctx, req.TenantID, req.PlanTier, starts); err != nil {
		uc.logger.Warn("CreateAppointment: quota check failed for tenant=%d (appointments=%d): %v",
			req.TenantID, len(starts), err)
		return nil, err
	}

	// 7. Выходной и рабочие часы
	if err := checkBusinessDay(ctx, uc.calendarRepo, req.TenantID, appointment.StartAt, appointment.EndAt); err != nil {
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("CreateAppointment: %v", err)
		} else {
			uc.logger.Warn("CreateAppointment: tenant=%d, start=%s: %v", req.TenantID, start.Format(time.RFC3339), err)
		}
		return nil, err
	}

	// 8. Блокировка дня + сериализуемая транзакция
	var (
		created   *domain.Appointment
		children  []*domain.Appointment
		skipped   []string
		committed bool
	)

	lockKey := locker.AppointmentsDayKey(req.TenantID, start)
	err = uc.locker.WithLock(ctx, lockKey, func(lockCtx context.Context) error {
		txErr := uc.txManager.DoSerializable(lockCtx, func(txCtx context.Context) error {
			// 8.1. Активные записи на дату с блокировкой строк (FOR UPDATE)
			existing, err := uc.appointmentRepo.ListByDate(txCtx, req.TenantID, start)
			if err != nil {
				return fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
			}

			// 8.2. Проверка пересечений
			if conflict := scheduling.FindConflict(appointment.StartAt, appointment.EndAt, existing, nil); conflict != nil {
				uc.logger.Warn("CreateAppointment: tenant=%d, %s-%s conflicts with appointment id=%d",
					req.TenantID, appointment.StartAt.Format(domain.TimeFormat), appointment.EndAt.Format(domain.TimeFormat), conflict.ID)
				return domain.NewConflictError(conflict)
			}

			// 8.3. Сохраняем запись
			created, err = uc.appointmentRepo.Create(txCtx, appointment)
			if err != nil {
				return uc.mapCreateError(err)
			}

			if !created.IsRecurring {
				return nil
			}

			// 8.4. Дети серии в той же транзакции
			children, skipped, err = uc.createChildren(txCtx, created)
			return err
		})
		committed = txErr == nil
		return txErr
	})
	if err != nil && !committed {
		return nil, uc.handleWriteError(req, err)
	}
	if err != nil {
		// транзакция уже зафиксирована, не смогли только снять блокировку
		uc.logger.Warn("CreateAppointment: appointment id=%d created, lock release failed: %v", created.ID, err)
	}

	// 9. Пересчёт счётчиков использования
	if _, err := uc.quota.RefreshUsage(ctx, req.TenantID); err != nil {
		uc.logger.Warn("CreateAppointment: failed to refresh usage for tenant=%d: %v", req.TenantID, err)
	}

	// 10. Напоминание; канал sms только на планах с sms_whatsapp
	channel := reminders.ChannelEmail
	if uc.quota.HasFeature(req.PlanTier, domain.FeatureSMSWhatsApp) {
		channel = reminders.ChannelSMS
	}
	uc.reminders.ScheduleWithGracefulDegradation(ctx, created, channel)

	// 11. Метрики
	if created.IsRecurring {
		uc.metrics.IncAppointmentsCreated(metricKindSeries, 1+len(children))
	} else {
		uc.metrics.IncAppointmentsCreated(metricKindSingle, 1)
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d for tenant=%d (children=%d, skipped=%d)",
		created.ID, req.TenantID, len(children), len(skipped))

	return &Response{
		Appointment:     models.FromDomainAppointment(created, uc.options.Location),
		ChildrenCreated: len(children),
		SkippedDates:    skipped,
	}, nil
}

// createChildren разворачивает серию и сохраняет детей.
// Без ValidateRecurringChildren пересечения ловит только ограничение БД и откатывает всю серию.
func (uc *UseCase) createChildren(ctx context.Context, parent *domain.Appointment) ([]*domain.Appointment, []string, error) {
	expanded, err := scheduling.ExpandSeries(parent)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to expand series: %v", ErrInternal, err)
	}

	created := make([]*domain.Appointment, 0, len(expanded))
	var skipped []string

	for _, child := range expanded {
		if uc.options.ValidateRecurringChildren {
			existing, err := uc.appointmentRepo.ListByDate(ctx, parent.TenantID, child.StartAt)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: failed to list appointments for %s: %v",
					ErrInternal, child.StartAt.Format(domain.DateFormat), err)
			}
			if conflict := scheduling.FindConflict(child.StartAt, child.EndAt, existing, nil); conflict != nil {
				uc.logger.Warn("CreateAppointment: series parent=%d, skipping %s, conflicts with appointment id=%d",
					parent.ID, child.StartAt.Format(time.RFC3339), conflict.ID)
				skipped = append(skipped, child.StartAt.Format(domain.DateFormat))
				continue
			}
		}

		saved, err := uc.appointmentRepo.Create(ctx, child)
		if err != nil {
			return nil, nil, uc.mapCreateError(err)
		}
		created = append(created, saved)
	}

	return created, skipped, nil
}

func (uc *UseCase) mapCreateError(err error) error {
	switch {
	case errors.Is(err, appointmentRepo.ErrOverlap):
		return ErrOverlap
	case errors.Is(err, appointmentRepo.ErrInvalidReference):
		return ErrServiceNotFound
	default:
		return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
	}
}

func (uc *UseCase) handleWriteError(req *Request, err error) error {
	switch {
	case errors.Is(err, domain.ErrConflict):
		uc.metrics.IncConflict("create")
		uc.logger.Warn("CreateAppointment: conflict for tenant=%d: %v", req.TenantID, err)
		return err
	case errors.Is(err, locker.ErrLockTimeout):
		uc.metrics.IncConflict("create")
		uc.logger.Warn("CreateAppointment: calendar of tenant=%d is busy: %v", req.TenantID, err)
		return ErrBusy
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrBadRequest):
		uc.logger.Warn("CreateAppointment: tenant=%d: %v", req.TenantID, err)
		return err
	case errors.Is(err, ErrInternal):
		uc.logger.Error("CreateAppointment: tenant=%d: %v", req.TenantID, err)
		return err
	default:
		uc.logger.Error("CreateAppointment: tenant=%d: %v", req.TenantID, err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

// seriesStarts начала записи и всех детей, которые будут созданы вместе с ней
func seriesStarts(a *domain.Appointment) ([]time.Time, error) {
	starts := []time.Time{a.StartAt}
	if !a.IsRecurring {
		return starts, nil
	}

	children, err := scheduling.ExpandSeries(a)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to expand series: %v", ErrInternal, err)
	}
	for _, child := range children {
		starts = append(starts, child.StartAt)
	}
	return starts, nil
}

func buildAppointment(req *Request, start time.Time, lines []domain.ServiceLine) *domain.Appointment {
	price := domain.TotalPrice(lines)
	if req.Price != nil {
		price = *req.Price
	}

	return &domain.Appointment{
		TenantID:    req.TenantID,
		ClientID:    req.ClientID,
		Services:    lines,
		StartAt:     start,
		EndAt:       start.Add(time.Duration(domain.TotalDuration(lines)) * time.Minute),
		State:       domain.StatePending,
		Notes:       req.Notes,
		Price:       price,
		IsRecurring: req.Recurrence != nil,
		Recurrence:  req.Recurrence,
	}
}
