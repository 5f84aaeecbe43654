package clients

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/clients/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidClientID    = "некорректный ID клиента"
	msgInvalidPagination  = "некорректные параметры limit/offset"
	msgMissingTenant      = "отсутствует арендатор"
)

type Handler struct {
	service ClientService
	logger  Logger
}

func NewHandler(service ClientService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// List GET /api/v1/clients
// Query params: limit, offset (optional)
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingTenant)
		return
	}

	limit, err := parseUint(r.URL.Query().Get("limit"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidPagination)
		return
	}
	offset, err := parseUint(r.URL.Query().Get("offset"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidPagination)
		return
	}

	list, err := h.service.List(r.Context(), id.TenantID, limit, offset)
	if err != nil {
		if handlers.StatusFor(err) == http.StatusInternalServerError {
			h.logger.Error("GET /clients - Failed to list clients: tenant_id=%d, error=%v", id.TenantID, err)
		} else {
			h.logger.Warn("GET /clients - Rejected: tenant_id=%d, error=%v", id.TenantID, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, list)
}

// Create POST /api/v1/clients
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingTenant)
		return
	}

	var req models.CreateClientRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /clients - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	created, err := h.service.Create(r.Context(), id.TenantID, id.PlanTier, &req)
	if err != nil {
		if handlers.StatusFor(err) == http.StatusInternalServerError {
			h.logger.Error("POST /clients - Failed to create client: tenant_id=%d, error=%v", id.TenantID, err)
		} else {
			h.logger.Warn("POST /clients - Rejected: tenant_id=%d, error=%v", id.TenantID, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("POST /clients - Client created: client_id=%d, tenant_id=%d", created.ID, id.TenantID)
	handlers.RespondJSON(w, http.StatusCreated, created)
}

// Get GET /api/v1/clients/{clientId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingTenant)
		return
	}

	clientID, err := handlers.PathID(r, "clientId")
	if err != nil {
		h.logger.Warn("GET /clients/{id} - Invalid client ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClientID)
		return
	}

	client, err := h.service.GetByID(r.Context(), id.TenantID, clientID)
	if err != nil {
		if handlers.StatusFor(err) == http.StatusInternalServerError {
			h.logger.Error("GET /clients/{id} - Failed to get client: client_id=%d, error=%v", clientID, err)
		} else {
			h.logger.Warn("GET /clients/{id} - Rejected: client_id=%d, error=%v", clientID, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, client)
}

func parseUint(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseUint(s, 10, 64)
}
