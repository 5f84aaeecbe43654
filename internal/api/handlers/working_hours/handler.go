package working_hours

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/calendar/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingTenant      = "отсутствует арендатор"
)

type Handler struct {
	service CalendarService
	logger  Logger
}

func NewHandler(service CalendarService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// List GET /api/v1/working-hours
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingTenant)
		return
	}

	list, err := h.service.ListWorkingHours(r.Context(), id.TenantID)
	if err != nil {
		h.logger.Error("GET /working-hours - Failed to list working hours: tenant_id=%d, error=%v", id.TenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, list)
}

// Upsert PUT /api/v1/working-hours
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingTenant)
		return
	}

	var req models.UpsertWorkingHoursRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /working-hours - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	wh, err := h.service.UpsertWorkingHours(r.Context(), id.TenantID, &req)
	if err != nil {
		if handlers.StatusFor(err) == http.StatusInternalServerError {
			h.logger.Error("PUT /working-hours - Failed to save working hours: tenant_id=%d, error=%v", id.TenantID, err)
		} else {
			h.logger.Warn("PUT /working-hours - Rejected: tenant_id=%d, weekday=%d, error=%v", id.TenantID, req.Weekday, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("PUT /working-hours - Working hours saved: tenant_id=%d, weekday=%d, %s-%s",
		id.TenantID, wh.Weekday, wh.OpenTime, wh.CloseTime)
	handlers.RespondJSON(w, http.StatusOK, wh)
}
