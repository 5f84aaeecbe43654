package services

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/catalog/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidServiceID   = "некорректный ID услуги"
	msgInvalidQuery       = "некорректный параметр includeInactive"
	msgMissingTenant      = "отсутствует арендатор"
)

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// List GET /api/v1/services
// Query params: includeInactive (optional, bool)
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingTenant)
		return
	}

	includeInactive := false
	if s := r.URL.Query().Get("includeInactive"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidQuery)
			return
		}
		includeInactive = v
	}

	list, err := h.service.List(r.Context(), id.TenantID, includeInactive)
	if err != nil {
		h.logger.Error("GET /services - Failed to list services: tenant_id=%d, error=%v", id.TenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, list)
}

// Create POST /api/v1/services
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingTenant)
		return
	}

	var req models.CreateServiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /services - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	created, err := h.service.Create(r.Context(), id.TenantID, id.PlanTier, &req)
	if err != nil {
		if handlers.StatusFor(err) == http.StatusInternalServerError {
			h.logger.Error("POST /services - Failed to create service: tenant_id=%d, error=%v", id.TenantID, err)
		} else {
			h.logger.Warn("POST /services - Rejected: tenant_id=%d, error=%v", id.TenantID, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("POST /services - Service created: service_id=%d, tenant_id=%d", created.ID, id.TenantID)
	handlers.RespondJSON(w, http.StatusCreated, created)
}

// Deactivate PATCH /api/v1/services/{serviceId}/deactivate
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingTenant)
		return
	}

	serviceID, err := handlers.PathID(r, "serviceId")
	if err != nil {
		h.logger.Warn("PATCH /services/{id}/deactivate - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	svc, err := h.service.Deactivate(r.Context(), id.TenantID, serviceID)
	if err != nil {
		if handlers.StatusFor(err) == http.StatusInternalServerError {
			h.logger.Error("PATCH /services/{id}/deactivate - Failed: service_id=%d, error=%v", serviceID, err)
		} else {
			h.logger.Warn("PATCH /services/{id}/deactivate - Rejected: service_id=%d, error=%v", serviceID, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("PATCH /services/{id}/deactivate - Service deactivated: service_id=%d, tenant_id=%d", serviceID, id.TenantID)
	handlers.RespondJSON(w, http.StatusOK, svc)
}
