package days_off

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingTenant      = "отсутствует арендатор"
)

// AddDayOffRequest HTTP request model
type AddDayOffRequest struct {
	Date   string  `json:"date"` // "2026-12-25"
	Reason *string `json:"reason,omitempty"`
}

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

// List GET /api/v1/days-off
// Query params: from (optional, YYYY-MM-DD)
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingTenant)
		return
	}

	var from *time.Time
	if s := r.URL.Query().Get("from"); s != "" {
		date, err := time.Parse(domain.DateFormat, s)
		if err != nil {
			h.logger.Warn("GET /days-off - Invalid from date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		from = &date
	}

	list, err := h.service.ListDaysOff(r.Context(), id.TenantID, from)
	if err != nil {
		h.logger.Error("GET /days-off - Failed to list days off: tenant_id=%d, error=%v", id.TenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, list)
}

// Add POST /api/v1/days-off
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingTenant)
		return
	}

	var req AddDayOffRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /days-off - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		h.logger.Warn("POST /days-off - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	dayOff, err := h.service.AddDayOff(r.Context(), id.TenantID, date, req.Reason)
	if err != nil {
		if handlers.StatusFor(err) == http.StatusInternalServerError {
			h.logger.Error("POST /days-off - Failed to add day off: tenant_id=%d, error=%v", id.TenantID, err)
		} else {
			h.logger.Warn("POST /days-off - Rejected: tenant_id=%d, date=%s, error=%v", id.TenantID, req.Date, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("POST /days-off - Day off added: tenant_id=%d, date=%s", id.TenantID, dayOff.Date)
	handlers.RespondJSON(w, http.StatusCreated, dayOff)
}

// Remove DELETE /api/v1/days-off/{date}
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingTenant)
		return
	}

	dateStr := mux.Vars(r)["date"]
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("DELETE /days-off/{date} - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	if err := h.service.RemoveDayOff(r.Context(), id.TenantID, date); err != nil {
		if handlers.StatusFor(err) == http.StatusInternalServerError {
			h.logger.Error("DELETE /days-off/{date} - Failed to remove day off: tenant_id=%d, error=%v", id.TenantID, err)
		} else {
			h.logger.Warn("DELETE /days-off/{date} - Rejected: tenant_id=%d, date=%s, error=%v", id.TenantID, dateStr, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("DELETE /days-off/{date} - Day off removed: tenant_id=%d, date=%s", id.TenantID, dateStr)
	w.WriteHeader(http.StatusNoContent)
}
