package update_appointment

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// Request модель запроса на изменение записи
type Request struct {
	TenantID      int64
	AppointmentID int64
	Patch         domain.AppointmentPatch
}

// Response модель ответа с изменённой записью
type Response struct {
	Appointment *models.AppointmentResponse
}
