package clients

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	clientRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/client"
	"github.com/m04kA/SMC-AppointmentService/internal/service/clients/models"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Service сервис клиентов арендатора
type Service struct {
	clientRepo ClientRepository
	quota      QuotaService
	logger     Logger
}

// NewService создает новый экземпляр сервиса клиентов
func NewService(clientRepo ClientRepository, quota QuotaService, logger Logger) *Service {
	return &Service{
		clientRepo: clientRepo,
		quota:      quota,
		logger:     logger,
	}
}

// Create регистрирует клиента в пределах лимита clientes
func (s *Service) Create(ctx context.Context, tenantID int64, tier domain.PlanTier, req *models.CreateClientRequest) (*models.ClientResponse, error) {
	s.logger.Info("CreateClient: tenant=%d", tenantID)

	client, err := buildClient(tenantID, req)
	if err != nil {
		s.logger.Warn("CreateClient: validation failed for tenant=%d: %v", tenantID, err)
		return nil, err
	}

	if err := s.quota.CheckLimit(ctx, tenantID, tier, domain.ResourceClients); err != nil {
		return nil, err
	}

	created, err := s.clientRepo.Create(ctx, client)
	if err != nil {
		s.logger.Error("CreateClient: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	if _, err := s.quota.RefreshUsage(ctx, tenantID); err != nil {
		s.logger.Warn("CreateClient: failed to refresh usage for tenant=%d: %v", tenantID, err)
	}

	s.logger.Info("CreateClient: created client id=%d for tenant=%d", created.ID, tenantID)
	return models.FromDomainClient(created), nil
}

// GetByID возвращает клиента арендатора
func (s *Service) GetByID(ctx context.Context, tenantID, id int64) (*models.ClientResponse, error) {
	client, err := s.clientRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, clientRepo.ErrClientNotFound) {
			return nil, ErrClientNotFound
		}
		s.logger.Error("GetClient: repository error for client id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainClient(client), nil
}

// List возвращает страницу клиентов; limit=0 означает размер по умолчанию
func (s *Service) List(ctx context.Context, tenantID int64, limit, offset uint64) (*models.ClientListResponse, error) {
	if limit == 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		return nil, ErrInvalidPagination
	}

	list, err := s.clientRepo.List(ctx, tenantID, limit, offset)
	if err != nil {
		s.logger.Error("ListClients: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}
	total, err := s.clientRepo.Count(ctx, tenantID)
	if err != nil {
		s.logger.Error("ListClients: count error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: List - count: %v", ErrInternal, err)
	}

	resp := &models.ClientListResponse{
		Clients: make([]*models.ClientResponse, 0, len(list)),
		Total:   total,
	}
	for _, c := range list {
		resp.Clients = append(resp.Clients, models.FromDomainClient(c))
	}
	return resp, nil
}

func buildClient(tenantID int64, req *models.CreateClientRequest) (*domain.Client, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || len([]rune(name)) > domain.MaxClientNameLength {
		return nil, ErrInvalidName
	}

	client := &domain.Client{TenantID: tenantID, Name: name}
	if req.Phone != nil && strings.TrimSpace(*req.Phone) != "" {
		phone := strings.TrimSpace(*req.Phone)
		client.Phone = &phone
	}
	if req.Email != nil && strings.TrimSpace(*req.Email) != "" {
		addr, err := mail.ParseAddress(strings.TrimSpace(*req.Email))
		if err != nil {
			return nil, ErrInvalidEmail
		}
		client.Email = &addr.Address
	}
	return client, nil
}
