package update_series

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
)

const (
	msgInvalidParentID    = "некорректный ID серии"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingTenant      = "отсутствует арендатор"
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

// Handle PATCH /api/v1/series/{parentId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingTenant)
		return
	}

	parentID, err := handlers.PathID(r, "parentId")
	if err != nil {
		h.logger.Warn("PATCH /series/{id} - Invalid parent ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParentID)
		return
	}

	var req UpdateSeriesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /series/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	patch, err := req.ToDomainPatch()
	if err != nil {
		h.logger.Warn("PATCH /series/{id} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.service.UpdateSeries(r.Context(), id.TenantID, parentID, patch)
	if err != nil {
		if handlers.StatusFor(err) == http.StatusInternalServerError {
			h.logger.Error("PATCH /series/{id} - Failed to update series: parent_id=%d, error=%v", parentID, err)
		} else {
			h.logger.Warn("PATCH /series/{id} - Rejected: parent_id=%d, error=%v", parentID, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("PATCH /series/{id} - Series updated successfully: parent_id=%d, affected=%d", parentID, result.Affected)
	handlers.RespondJSON(w, http.StatusOK, result)
}
