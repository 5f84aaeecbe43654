package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Response модели

// ServiceLineResponse услуга в составе записи
type ServiceLineResponse struct {
	ServiceID       int64           `json:"serviceId"`
	Name            string          `json:"name"`
	DurationMinutes int             `json:"durationMinutes"`
	Price           decimal.Decimal `json:"price"`
}

// RecurrenceResponse правило повторения родителя серии
type RecurrenceResponse struct {
	Pattern        string `json:"pattern"`
	Weekdays       []int  `json:"weekdays,omitempty"` // 0 = понедельник
	IntervalDays   int    `json:"intervalDays,omitempty"`
	MaxOccurrences *int   `json:"maxOccurrences,omitempty"`
	EndDate        string `json:"endDate,omitempty"`
}

// AppointmentResponse запись
type AppointmentResponse struct {
	ID              int64                 `json:"id"`
	TenantID        int64                 `json:"tenantId"`
	ClientID        int64                 `json:"clientId"`
	Services        []ServiceLineResponse `json:"services"`
	Date            string                `json:"date"`
	StartTime       string                `json:"startTime"`
	EndTime         string                `json:"endTime"`
	StartAt         time.Time             `json:"startAt"`
	EndAt           time.Time             `json:"endAt"`
	DurationMinutes int                   `json:"durationMinutes"`
	State           string                `json:"state"`
	Notes           *string               `json:"notes,omitempty"`
	Price           decimal.Decimal       `json:"price"`
	IsRecurring     bool                  `json:"isRecurring"`
	Recurrence      *RecurrenceResponse   `json:"recurrence,omitempty"`
	ParentID        *int64                `json:"parentId,omitempty"`
	CreatedAt       string                `json:"createdAt"`
	UpdatedAt       string                `json:"updatedAt"`
}

// AppointmentListResponse список записей
type AppointmentListResponse struct {
	Appointments []*AppointmentResponse `json:"appointments"`
	Total        int                    `json:"total"`
}

// SeriesResponse родитель серии и её дети
type SeriesResponse struct {
	Parent   *AppointmentResponse   `json:"parent"`
	Children []*AppointmentResponse `json:"children"`
}

// SeriesUpdateResponse результат групповой операции над серией
type SeriesUpdateResponse struct {
	ParentID int64 `json:"parentId"`
	Affected int   `json:"affected"`
}

// Request модели

// ListAppointmentsRequest фильтр списка записей
type ListAppointmentsRequest struct {
	TenantID        int64
	From            *time.Time
	To              *time.Time
	ClientID        *int64
	State           *string
	IncludeCanceled bool
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListAppointmentsRequest) ToDomainFilter() (domain.AppointmentsFilter, error) {
	filter := domain.AppointmentsFilter{
		TenantID:        r.TenantID,
		From:            r.From,
		To:              r.To,
		ClientID:        r.ClientID,
		IncludeCanceled: r.IncludeCanceled,
	}

	if r.State != nil {
		state, err := domain.ParseAppointmentState(*r.State)
		if err != nil {
			return filter, err
		}
		filter.State = &state
	}

	return filter, nil
}

// Конвертеры

// FromDomainAppointment конвертирует запись в response; время показывается в зоне loc
func FromDomainAppointment(a *domain.Appointment, loc *time.Location) *AppointmentResponse {
	if loc == nil {
		loc = time.UTC
	}
	start := a.StartAt.In(loc)
	end := a.EndAt.In(loc)

	services := make([]ServiceLineResponse, 0, len(a.Services))
	for _, l := range a.Services {
		services = append(services, ServiceLineResponse{
			ServiceID:       l.ServiceID,
			Name:            l.Name,
			DurationMinutes: l.DurationMinutes,
			Price:           l.Price,
		})
	}

	return &AppointmentResponse{
		ID:              a.ID,
		TenantID:        a.TenantID,
		ClientID:        a.ClientID,
		Services:        services,
		Date:            start.Format(domain.DateFormat),
		StartTime:       start.Format(domain.TimeFormat),
		EndTime:         end.Format(domain.TimeFormat),
		StartAt:         start,
		EndAt:           end,
		DurationMinutes: a.TotalDurationMinutes(),
		State:           string(a.State),
		Notes:           a.Notes,
		Price:           a.Price,
		IsRecurring:     a.IsRecurring,
		Recurrence:      fromDomainRecurrence(a.Recurrence),
		ParentID:        a.ParentID,
		CreatedAt:       a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       a.UpdatedAt.Format(time.RFC3339),
	}
}

// FromDomainAppointmentList конвертирует список записей
func FromDomainAppointmentList(list []*domain.Appointment, loc *time.Location) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]*AppointmentResponse, 0, len(list)),
		Total:        len(list),
	}
	for _, a := range list {
		resp.Appointments = append(resp.Appointments, FromDomainAppointment(a, loc))
	}
	return resp
}

func fromDomainRecurrence(r *domain.RecurrenceRule) *RecurrenceResponse {
	if r == nil {
		return nil
	}

	resp := &RecurrenceResponse{
		Pattern:        string(r.Pattern),
		IntervalDays:   r.IntervalDays,
		MaxOccurrences: r.MaxOccurrences,
	}
	for _, d := range r.Weekdays {
		resp.Weekdays = append(resp.Weekdays, int(d))
	}
	if r.EndDate != nil {
		resp.EndDate = r.EndDate.Format(domain.DateFormat)
	}
	return resp
}
