package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/service/catalog/models"
)

// Service сервис каталога услуг
type Service struct {
	catalogRepo CatalogRepository
	quota       QuotaService
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(catalogRepo CatalogRepository, quota QuotaService, logger Logger) *Service {
	return &Service{
		catalogRepo: catalogRepo,
		quota:       quota,
		logger:      logger,
	}
}

// Create добавляет услугу в пределах лимита servicios
func (s *Service) Create(ctx context.Context, tenantID int64, tier domain.PlanTier, req *models.CreateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("CreateService: tenant=%d, name=%q, duration=%d", tenantID, req.Name, req.DurationMinutes)

	name := strings.TrimSpace(req.Name)
	if err := validateService(name, req); err != nil {
		s.logger.Warn("CreateService: validation failed for tenant=%d: %v", tenantID, err)
		return nil, err
	}

	if err := s.quota.CheckLimit(ctx, tenantID, tier, domain.ResourceServices); err != nil {
		return nil, err
	}

	created, err := s.catalogRepo.Create(ctx, &domain.Service{
		TenantID:        tenantID,
		Name:            name,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		State:           domain.ServiceActive,
	})
	if err != nil {
		if errors.Is(err, catalogRepo.ErrDuplicateService) {
			s.logger.Warn("CreateService: tenant=%d already has service %q", tenantID, name)
			return nil, ErrDuplicateService
		}
		s.logger.Error("CreateService: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.refreshUsage(ctx, "CreateService", tenantID)

	s.logger.Info("CreateService: created service id=%d for tenant=%d", created.ID, tenantID)
	return models.FromDomainService(created), nil
}

// Deactivate переводит услугу в неактивное состояние; прошлые записи сохраняют свои копии услуги
func (s *Service) Deactivate(ctx context.Context, tenantID, id int64) (*models.ServiceResponse, error) {
	s.logger.Info("DeactivateService: tenant=%d, service=%d", tenantID, id)

	svc, err := s.catalogRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			s.logger.Warn("DeactivateService: service id=%d not found for tenant=%d", id, tenantID)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("DeactivateService: repository error for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Deactivate - get service: %v", ErrInternal, err)
	}
	if !svc.IsActive() {
		return nil, ErrAlreadyInactive
	}

	if err := s.catalogRepo.SetState(ctx, tenantID, id, domain.ServiceInactive); err != nil {
		s.logger.Error("DeactivateService: failed to deactivate service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Deactivate - set state: %v", ErrInternal, err)
	}
	svc.State = domain.ServiceInactive

	s.refreshUsage(ctx, "DeactivateService", tenantID)
	return models.FromDomainService(svc), nil
}

// List возвращает услуги арендатора
func (s *Service) List(ctx context.Context, tenantID int64, includeInactive bool) ([]*models.ServiceResponse, error) {
	list, err := s.catalogRepo.List(ctx, tenantID, includeInactive)
	if err != nil {
		s.logger.Error("ListServices: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainServiceList(list), nil
}

// refreshUsage счётчики вторичны: ошибка пересчёта только логируется
func (s *Service) refreshUsage(ctx context.Context, op string, tenantID int64) {
	if _, err := s.quota.RefreshUsage(ctx, tenantID); err != nil {
		s.logger.Warn("%s: failed to refresh usage for tenant=%d: %v", op, tenantID, err)
	}
}

func validateService(name string, req *models.CreateServiceRequest) error {
	if name == "" || len([]rune(name)) > domain.MaxServiceNameLength {
		return ErrInvalidName
	}
	if req.DurationMinutes < domain.MinServiceDuration || req.DurationMinutes > domain.MaxServiceDuration {
		return ErrInvalidDuration
	}
	if req.Price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}
