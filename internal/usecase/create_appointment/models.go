package create_appointment

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// Request модель запроса на создание записи
type Request struct {
	TenantID   int64
	PlanTier   domain.PlanTier
	ClientID   int64
	ServiceIDs []int64
	StartAt    time.Time
	Notes      *string
	Price      *decimal.Decimal       // nil = сумма цен услуг
	Recurrence *domain.RecurrenceRule // nil = разовая запись
}

// Response модель ответа с созданной записью
type Response struct {
	Appointment     *models.AppointmentResponse
	ChildrenCreated int
	SkippedDates    []string // даты детей серии, пропущенные из-за пересечений
}
