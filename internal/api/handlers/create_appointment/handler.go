package create_appointment

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingTenant      = "отсутствует арендатор"
	msgCalendarBusy       = "календарь занят, повторите запрос"
)

type Handler struct {
	useCase  CreateAppointmentUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase CreateAppointmentUseCase, location *time.Location, logger Logger) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingTenant)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(id.TenantID, id.PlanTier, h.location)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrBusy):
			h.logger.Warn("POST /appointments - Calendar busy: tenant_id=%d", id.TenantID)
			handlers.RespondConflict(w, msgCalendarBusy)

		case errors.Is(err, domain.ErrConflict):
			h.logger.Warn("POST /appointments - Conflict: tenant_id=%d, client_id=%d, error=%v", id.TenantID, req.ClientID, err)
			handlers.RespondConflict(w, err.Error())

		case handlers.StatusFor(err) != http.StatusInternalServerError:
			h.logger.Warn("POST /appointments - Rejected: tenant_id=%d, client_id=%d, error=%v", id.TenantID, req.ClientID, err)
			handlers.RespondDomainError(w, err)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: tenant_id=%d, client_id=%d, error=%v",
				id.TenantID, req.ClientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, tenant_id=%d, children=%d",
		result.Appointment.ID, id.TenantID, result.ChildrenCreated)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
