package get_available_slots

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
)

const (
	msgMissingTenant     = "отсутствует арендатор"
	msgMissingDate       = "дата обязательна"
	msgMissingServiceIDs = "список услуг обязателен"
	msgInvalidQuery      = "некорректные параметры запроса, ожидается date=YYYY-MM-DD&serviceIds=1,2"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability
// Query params: date (required, YYYY-MM-DD), serviceIds (required, 1,2), excludeAppointmentId (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingTenant)
		return
	}

	query := r.URL.Query()

	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /availability - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	serviceIDsStr := query.Get("serviceIds")
	if serviceIDsStr == "" {
		h.logger.Warn("GET /availability - Missing service IDs")
		handlers.RespondBadRequest(w, msgMissingServiceIDs)
		return
	}

	useCaseReq, err := ToUseCaseRequest(id.TenantID, dateStr, serviceIDsStr, query.Get("excludeAppointmentId"))
	if err != nil {
		h.logger.Warn("GET /availability - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if handlers.StatusFor(err) == http.StatusInternalServerError {
			h.logger.Error("GET /availability - Failed to get slots: tenant_id=%d, date=%s, error=%v", id.TenantID, dateStr, err)
		} else {
			h.logger.Warn("GET /availability - Rejected: tenant_id=%d, date=%s, error=%v", id.TenantID, dateStr, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("GET /availability - Slots retrieved successfully: tenant_id=%d, date=%s, slots_count=%d",
		id.TenantID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
