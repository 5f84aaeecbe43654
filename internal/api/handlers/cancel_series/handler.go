package cancel_series

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
)

const (
	msgInvalidParentID = "некорректный ID серии"
	msgMissingTenant   = "отсутствует арендатор"
)

type Handler struct {
	service SeriesService
	logger  Logger
}

func NewHandler(service SeriesService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/series/{parentId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingTenant)
		return
	}

	parentID, err := handlers.PathID(r, "parentId")
	if err != nil {
		h.logger.Warn("PATCH /series/{id}/cancel - Invalid parent ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParentID)
		return
	}

	result, err := h.service.CancelSeries(r.Context(), id.TenantID, parentID)
	if err != nil {
		if handlers.StatusFor(err) == http.StatusInternalServerError {
			h.logger.Error("PATCH /series/{id}/cancel - Failed to cancel series: parent_id=%d, error=%v", parentID, err)
		} else {
			h.logger.Warn("PATCH /series/{id}/cancel - Rejected: parent_id=%d, error=%v", parentID, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("PATCH /series/{id}/cancel - Series canceled successfully: parent_id=%d, affected=%d", parentID, result.Affected)
	handlers.RespondJSON(w, http.StatusOK, result)
}
