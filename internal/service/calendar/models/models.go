package models

import "github.com/m04kA/SMC-AppointmentService/internal/domain"

// UpsertWorkingHoursRequest рабочие часы на день недели
type UpsertWorkingHoursRequest struct {
	Weekday   int    `json:"weekday"`   // 0 = понедельник
	OpenTime  string `json:"openTime"`  // "09:00"
	CloseTime string `json:"closeTime"` // "18:00"
	Active    *bool  `json:"active,omitempty"`
}

// IsActive по умолчанию запись действующая
func (r *UpsertWorkingHoursRequest) IsActive() bool {
	return r.Active == nil || *r.Active
}

// WorkingHoursResponse рабочие часы
type WorkingHoursResponse struct {
	ID        int64  `json:"id"`
	Weekday   int    `json:"weekday"`
	DayName   string `json:"dayName"`
	OpenTime  string `json:"openTime"`
	CloseTime string `json:"closeTime"`
	Active    bool   `json:"active"`
}

// DayOffResponse выходной день
type DayOffResponse struct {
	ID     int64   `json:"id"`
	Date   string  `json:"date"`
	Reason *string `json:"reason,omitempty"`
}

// FromDomainWorkingHours конвертирует рабочие часы в response
func FromDomainWorkingHours(wh *domain.WorkingHours) *WorkingHoursResponse {
	return &WorkingHoursResponse{
		ID:        wh.ID,
		Weekday:   int(wh.Weekday),
		DayName:   wh.Weekday.String(),
		OpenTime:  wh.OpenTime.String(),
		CloseTime: wh.CloseTime.String(),
		Active:    wh.Active,
	}
}

// FromDomainDayOff конвертирует выходной в response
func FromDomainDayOff(d *domain.DayOff) *DayOffResponse {
	return &DayOffResponse{
		ID:     d.ID,
		Date:   d.Date.Format(domain.DateFormat),
		Reason: d.Reason,
	}
}

// FromDomainWorkingHoursList конвертирует список рабочих часов
func FromDomainWorkingHoursList(list []*domain.WorkingHours) []*WorkingHoursResponse {
	out := make([]*WorkingHoursResponse, 0, len(list))
	for _, wh := range list {
		out = append(out, FromDomainWorkingHours(wh))
	}
	return out
}

// FromDomainDayOffList конвертирует список выходных
func FromDomainDayOffList(list []*domain.DayOff) []*DayOffResponse {
	out := make([]*DayOffResponse, 0, len(list))
	for _, d := range list {
		out = append(out, FromDomainDayOff(d))
	}
	return out
}
