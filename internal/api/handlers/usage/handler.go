package usage

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	msgMissingTenant  = "отсутствует арендатор"
	msgUnknownFeature = "неизвестная функция"
)

var knownFeatures = map[domain.Feature]struct{}{
	domain.FeatureSMSWhatsApp:     {},
	domain.FeatureAdvancedReports: {},
	domain.FeaturePrioritySupport: {},
}

type Handler struct {
	service QuotaService
	logger  Logger
}

func NewHandler(service QuotaService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Usage GET /api/v1/usage
func (h *Handler) Usage(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingTenant)
		return
	}

	plan, err := h.service.Plan(id.PlanTier)
	if err != nil {
		h.logger.Error("GET /usage - Plan not configured: tenant_id=%d, tier=%s, error=%v", id.TenantID, id.PlanTier, err)
		handlers.RespondInternalError(w)
		return
	}

	counter, err := h.service.GetUsage(r.Context(), id.TenantID)
	if err != nil {
		h.logger.Error("GET /usage - Failed to get usage: tenant_id=%d, error=%v", id.TenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	resp, err := FromDomainUsage(counter, plan)
	if err != nil {
		h.logger.Error("GET /usage - Failed to build response: tenant_id=%d, error=%v", id.TenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Feature GET /api/v1/features/{name}
// 200 если функция входит в тариф, 403 если нет
func (h *Handler) Feature(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingTenant)
		return
	}

	feature := domain.Feature(mux.Vars(r)["name"])
	if _, known := knownFeatures[feature]; !known {
		h.logger.Warn("GET /features/{name} - Unknown feature %q", feature)
		handlers.RespondNotFound(w, msgUnknownFeature)
		return
	}

	if err := h.service.RequireFeature(id.PlanTier, feature); err != nil {
		if errors.Is(err, domain.ErrFeatureNotAvailable) {
			h.logger.Info("GET /features/{name} - Not available: tenant_id=%d, tier=%s, feature=%s", id.TenantID, id.PlanTier, feature)
			handlers.RespondForbidden(w, err.Error())
			return
		}
		h.logger.Error("GET /features/{name} - Failed to check feature: tenant_id=%d, error=%v", id.TenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FeatureResponse{Feature: string(feature), Available: true})
}
