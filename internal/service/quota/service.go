package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	usageCache "github.com/m04kA/SMC-AppointmentService/internal/infra/cache/usage"
	usageRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/usage"
)

// Service проверяет лимиты тарифа и ведёт счётчики использования.
// Лимит мягкий: проверка, создание и пересчёт не атомарны, параллельные запросы
// могут превысить лимит на несколько единиц.
type Service struct {
	tenants      TenantRepository
	clients      ClientRepository
	catalog      CatalogRepository
	appointments AppointmentRepository
	usage        UsageRepository
	cache        UsageCache
	plans        map[domain.PlanTier]domain.PlanLimits
	location     *time.Location
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса квот.
// plans не копируется и не должен меняться после запуска.
func NewService(
	tenants TenantRepository,
	clients ClientRepository,
	catalog CatalogRepository,
	appointments AppointmentRepository,
	usage UsageRepository,
	cache UsageCache,
	plans map[domain.PlanTier]domain.PlanLimits,
	location *time.Location,
	metrics Metrics,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		tenants:      tenants,
		clients:      clients,
		catalog:      catalog,
		appointments: appointments,
		usage:        usage,
		cache:        cache,
		plans:        plans,
		location:     location,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Plan возвращает лимиты тарифа
func (s *Service) Plan(tier domain.PlanTier) (domain.PlanLimits, error) {
	plan, ok := s.plans[tier]
	if !ok {
		return domain.PlanLimits{}, ErrUnknownPlan
	}
	return plan, nil
}

// CheckLimit возвращает *domain.QuotaExceededError, если текущее количество уже достигло лимита
func (s *Service) CheckLimit(ctx context.Context, tenantID int64, tier domain.PlanTier, kind domain.ResourceKind) error {
	return s.checkLimit(ctx, tenantID, tier, kind, 1)
}

// CheckAppointments проверяет месячный лимит для пачки записей (родитель и дети серии).
// В расчёт идут только даты текущего месяца, но не меньше одной записи.
func (s *Service) CheckAppointments(ctx context.Context, tenantID int64, tier domain.PlanTier, starts []time.Time) error {
	from, to := monthBounds(s.timeProvider.Now().In(s.location))

	n := 0
	for _, start := range starts {
		local := start.In(s.location)
		if !local.Before(from) && local.Before(to) {
			n++
		}
	}
	if n == 0 {
		n = 1
	}

	return s.checkLimit(ctx, tenantID, tier, domain.ResourceAppointmentsThisMonth, n)
}

// checkLimit отклоняет создание n ресурсов, если current + n превышает лимит
func (s *Service) checkLimit(ctx context.Context, tenantID int64, tier domain.PlanTier, kind domain.ResourceKind, n int) error {
	plan, err := s.Plan(tier)
	if err != nil {
		s.logger.Error("CheckLimit: tenant=%d has unknown plan %q", tenantID, tier)
		return err
	}

	limit, err := plan.Limit(kind)
	if err != nil {
		s.logger.Error("CheckLimit: tenant=%d, %v", tenantID, err)
		return err
	}
	if limit == domain.Unlimited {
		return nil
	}

	current, err := s.count(ctx, tenantID, kind)
	if err != nil {
		s.logger.Error("CheckLimit: failed to count %s for tenant=%d: %v", kind, tenantID, err)
		return fmt.Errorf("%w: CheckLimit - count %s: %v", ErrInternal, kind, err)
	}

	if current+n > limit {
		s.logger.Warn("CheckLimit: tenant=%d, %s %d+%d exceeds limit %d", tenantID, kind, current, n, limit)
		s.metrics.IncQuotaRejection(string(kind))
		return &domain.QuotaExceededError{Kind: kind, Current: current, Limit: limit}
	}

	return nil
}

// RequireFeature проверяет, что функция входит в тариф
func (s *Service) RequireFeature(tier domain.PlanTier, feature domain.Feature) error {
	plan, err := s.Plan(tier)
	if err != nil {
		return err
	}

	has, err := plan.HasFeature(feature)
	if err != nil {
		return err
	}
	if !has {
		return &domain.FeatureNotAvailableError{Tier: tier, Feature: feature}
	}
	return nil
}

// HasFeature как RequireFeature, но без ошибки для отсутствующей функции
func (s *Service) HasFeature(tier domain.PlanTier, feature domain.Feature) bool {
	return s.RequireFeature(tier, feature) == nil
}

// RefreshUsage пересчитывает все счётчики за текущий период и сохраняет их
func (s *Service) RefreshUsage(ctx context.Context, tenantID int64) (*domain.UsageCounter, error) {
	now := s.timeProvider.Now().In(s.location)
	u := &domain.UsageCounter{
		TenantID:  tenantID,
		Period:    domain.PeriodOf(now),
		UpdatedAt: now,
	}

	var err error
	if u.Users, err = s.count(ctx, tenantID, domain.ResourceUsers); err != nil {
		return nil, s.refreshFailed(tenantID, err)
	}
	if u.Clients, err = s.count(ctx, tenantID, domain.ResourceClients); err != nil {
		return nil, s.refreshFailed(tenantID, err)
	}
	if u.AppointmentsThisMonth, err = s.count(ctx, tenantID, domain.ResourceAppointmentsThisMonth); err != nil {
		return nil, s.refreshFailed(tenantID, err)
	}
	if u.Services, err = s.count(ctx, tenantID, domain.ResourceServices); err != nil {
		return nil, s.refreshFailed(tenantID, err)
	}

	if err := s.usage.EnsurePeriod(ctx, tenantID, u.Period); err != nil {
		return nil, s.refreshFailed(tenantID, err)
	}
	if err := s.usage.Save(ctx, u); err != nil {
		return nil, s.refreshFailed(tenantID, err)
	}

	// кэш вторичен, ошибка не ломает пересчёт
	if err := s.cache.Set(ctx, u); err != nil {
		s.logger.Warn("RefreshUsage: failed to cache usage for tenant=%d: %v", tenantID, err)
	}

	s.logger.Info("RefreshUsage: tenant=%d, period=%s, users=%d, clients=%d, appointments=%d, services=%d",
		tenantID, u.Period, u.Users, u.Clients, u.AppointmentsThisMonth, u.Services)
	return u, nil
}

// GetUsage возвращает счётчики: кэш, затем сохранённая строка периода, затем пересчёт
func (s *Service) GetUsage(ctx context.Context, tenantID int64) (*domain.UsageCounter, error) {
	period := domain.PeriodOf(s.timeProvider.Now().In(s.location))

	cached, err := s.cache.Get(ctx, tenantID, period)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, usageCache.ErrCacheMiss) {
		s.logger.Warn("GetUsage: cache read failed for tenant=%d: %v", tenantID, err)
	}

	stored, err := s.usage.Get(ctx, tenantID, period)
	switch {
	case err == nil:
		if err := s.cache.Set(ctx, stored); err != nil {
			s.logger.Warn("GetUsage: failed to cache usage for tenant=%d: %v", tenantID, err)
		}
		return stored, nil
	case !errors.Is(err, usageRepo.ErrUsageNotFound):
		s.logger.Warn("GetUsage: failed to read stored usage for tenant=%d: %v", tenantID, err)
	}

	return s.RefreshUsage(ctx, tenantID)
}

func (s *Service) count(ctx context.Context, tenantID int64, kind domain.ResourceKind) (int, error) {
	switch kind {
	case domain.ResourceUsers:
		return s.tenants.CountActiveUsers(ctx, tenantID)
	case domain.ResourceClients:
		return s.clients.Count(ctx, tenantID)
	case domain.ResourceServices:
		return s.catalog.CountActive(ctx, tenantID)
	case domain.ResourceAppointmentsThisMonth:
		from, to := monthBounds(s.timeProvider.Now().In(s.location))
		return s.appointments.CountInPeriod(ctx, tenantID, from, to)
	default:
		return 0, fmt.Errorf("%w: unknown resource kind %q", domain.ErrConfiguration, kind)
	}
}

func (s *Service) refreshFailed(tenantID int64, err error) error {
	s.logger.Error("RefreshUsage: tenant=%d: %v", tenantID, err)
	return fmt.Errorf("%w: RefreshUsage: %v", ErrInternal, err)
}

// monthBounds [первое число месяца, первое число следующего)
func monthBounds(t time.Time) (time.Time, time.Time) {
	y, m, _ := t.Date()
	from := time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	return from, from.AddDate(0, 1, 0)
}
