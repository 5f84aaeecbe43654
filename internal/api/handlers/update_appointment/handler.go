package update_appointment

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgMissingTenant        = "отсутствует арендатор"
)

type Handler struct {
	useCase  UpdateAppointmentUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase UpdateAppointmentUseCase, location *time.Location, logger Logger) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingTenant)
		return
	}

	appointmentID, err := handlers.PathID(r, "appointmentId")
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id} - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req UpdateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(id.TenantID, appointmentID, h.location)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if handlers.StatusFor(err) == http.StatusInternalServerError {
			h.logger.Error("PATCH /appointments/{id} - Failed to update appointment: appointment_id=%d, tenant_id=%d, error=%v",
				appointmentID, id.TenantID, err)
		} else {
			h.logger.Warn("PATCH /appointments/{id} - Rejected: appointment_id=%d, tenant_id=%d, error=%v",
				appointmentID, id.TenantID, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("PATCH /appointments/{id} - Appointment updated successfully: appointment_id=%d, tenant_id=%d",
		appointmentID, id.TenantID)
	handlers.RespondJSON(w, http.StatusOK, result.Appointment)
}
