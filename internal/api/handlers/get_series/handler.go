package get_series

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

// Handle GET /api/v1/series/{parentId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingTenant)
		return
	}

	parentID, err := handlers.PathID(r, "parentId")
	if err != nil {
		h.logger.Warn("GET /series/{id} - Invalid parent ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParentID)
		return
	}

	series, err := h.service.GetSeries(r.Context(), id.TenantID, parentID)
	if err != nil {
		if handlers.StatusFor(err) == http.StatusInternalServerError {
			h.logger.Error("GET /series/{id} - Failed to get series: parent_id=%d, error=%v", parentID, err)
		} else {
			h.logger.Warn("GET /series/{id} - Rejected: parent_id=%d, error=%v", parentID, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("GET /series/{id} - Series retrieved successfully: parent_id=%d, children=%d", parentID, len(series.Children))
	handlers.RespondJSON(w, http.StatusOK, series)
}
