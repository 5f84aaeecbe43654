package update_appointment

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	updateAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/update_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

var errDateTimePair = errors.New("date and startTime must be given together")

// UpdateAppointmentRequest HTTP request model; отсутствующие поля не меняются
type UpdateAppointmentRequest struct {
	ClientID   *int64           `json:"clientId,omitempty"`
	ServiceIDs []int64          `json:"serviceIds,omitempty"`
	Date       *string          `json:"date,omitempty"`
	StartTime  *string          `json:"startTime,omitempty"`
	Notes      *string          `json:"notes,omitempty"`
	Price      *decimal.Decimal `json:"price,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateAppointmentRequest) ToUseCaseRequest(tenantID, appointmentID int64, loc *time.Location) (*updateAppointment.Request, error) {
	patch := domain.AppointmentPatch{
		ClientID:   r.ClientID,
		ServiceIDs: r.ServiceIDs,
		Notes:      r.Notes,
		Price:      r.Price,
	}

	if (r.Date == nil) != (r.StartTime == nil) {
		return nil, errDateTimePair
	}
	if r.Date != nil {
		date, err := time.ParseInLocation(domain.DateFormat, *r.Date, loc)
		if err != nil {
			return nil, fmt.Errorf("date: %w", err)
		}
		startTime, err := types.NewTimeStringFromString(*r.StartTime)
		if err != nil {
			return nil, fmt.Errorf("startTime: %w", err)
		}
		startAt, err := startTime.On(date, loc)
		if err != nil {
			return nil, fmt.Errorf("startTime: %w", err)
		}
		patch.StartAt = &startAt
	}

	return &updateAppointment.Request{
		TenantID:      tenantID,
		AppointmentID: appointmentID,
		Patch:         patch,
	}, nil
}
