package create_appointment

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ClientID   int64              `json:"clientId"`
	ServiceIDs []int64            `json:"serviceIds"`
	Date       string             `json:"date"`      // "2026-03-16"
	StartTime  string             `json:"startTime"` // "10:00"
	Notes      *string            `json:"notes,omitempty"`
	Price      *decimal.Decimal   `json:"price,omitempty"`
	Recurrence *RecurrenceRequest `json:"recurrence,omitempty"`
}

// RecurrenceRequest правило повторения
type RecurrenceRequest struct {
	Pattern        string `json:"pattern"`            // DAILY, WEEKLY, BIWEEKLY, MONTHLY, QUARTERLY, CUSTOM
	Weekdays       []int  `json:"weekdays,omitempty"` // 0 = понедельник
	IntervalDays   int    `json:"intervalDays,omitempty"`
	MaxOccurrences *int   `json:"maxOccurrences,omitempty"`
	EndDate        string `json:"endDate,omitempty"`
}

// CreateAppointmentResponse HTTP response model
type CreateAppointmentResponse struct {
	Appointment     *models.AppointmentResponse `json:"appointment"`
	ChildrenCreated int                         `json:"childrenCreated"`
	SkippedDates    []string                    `json:"skippedDates,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Дата и время трактуются в часовом поясе арендатора.
func (r *CreateAppointmentRequest) ToUseCaseRequest(tenantID int64, tier domain.PlanTier, loc *time.Location) (*createAppointment.Request, error) {
	date, err := time.ParseInLocation(domain.DateFormat, r.Date, loc)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}
	startAt, err := startTime.On(date, loc)
	if err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}

	req := &createAppointment.Request{
		TenantID:   tenantID,
		PlanTier:   tier,
		ClientID:   r.ClientID,
		ServiceIDs: r.ServiceIDs,
		StartAt:    startAt,
		Notes:      r.Notes,
		Price:      r.Price,
	}

	if r.Recurrence != nil {
		rule, err := r.Recurrence.toDomain(loc)
		if err != nil {
			return nil, err
		}
		req.Recurrence = rule
	}

	return req, nil
}

func (r *RecurrenceRequest) toDomain(loc *time.Location) (*domain.RecurrenceRule, error) {
	pattern, err := domain.ParseRecurrencePattern(r.Pattern)
	if err != nil {
		return nil, fmt.Errorf("recurrence.pattern: %w", err)
	}

	rule := &domain.RecurrenceRule{
		Pattern:        pattern,
		IntervalDays:   r.IntervalDays,
		MaxOccurrences: r.MaxOccurrences,
	}
	for _, d := range r.Weekdays {
		wd := domain.Weekday(d)
		if !wd.IsValid() {
			return nil, fmt.Errorf("recurrence.weekdays: invalid weekday %d", d)
		}
		rule.Weekdays = append(rule.Weekdays, wd)
	}
	if r.EndDate != "" {
		end, err := time.ParseInLocation(domain.DateFormat, r.EndDate, loc)
		if err != nil {
			return nil, fmt.Errorf("recurrence.endDate: %w", err)
		}
		rule.EndDate = &end
	}

	return rule, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *CreateAppointmentResponse {
	return &CreateAppointmentResponse{
		Appointment:     resp.Appointment,
		ChildrenCreated: resp.ChildrenCreated,
		SkippedDates:    resp.SkippedDates,
	}
}
