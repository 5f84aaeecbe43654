package change_appointment_state

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidState         = "некорректный статус, ожидается PENDING, CONFIRMED, COMPLETED или CANCELED"
	msgMissingTenant        = "отсутствует арендатор"
	msgNotFound             = "запись не найдена"
	msgInvalidTransition    = "смена статуса недопустима"
)

// ChangeStateRequest HTTP request model
type ChangeStateRequest struct {
	State string `json:"state"`
}

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/state
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingTenant)
		return
	}

	appointmentID, err := handlers.PathID(r, "appointmentId")
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/state - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req ChangeStateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/state - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	next, err := domain.ParseAppointmentState(req.State)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/state - Invalid state %q", req.State)
		handlers.RespondBadRequest(w, msgInvalidState)
		return
	}

	appointment, err := h.service.ChangeState(r.Context(), id.TenantID, appointmentID, next)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id}/state - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrInvalidTransition):
			h.logger.Warn("PATCH /appointments/{id}/state - Invalid transition: appointment_id=%d, state=%s", appointmentID, next)
			handlers.RespondBadRequest(w, msgInvalidTransition)

		default:
			h.logger.Error("PATCH /appointments/{id}/state - Failed to change state: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/state - State changed successfully: appointment_id=%d, state=%s", appointmentID, next)
	handlers.RespondJSON(w, http.StatusOK, appointment)
}
