package get_available_slots

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string          `json:"date"`
	DurationMinutes int             `json:"durationMinutes"`
	GridMinutes     int             `json:"gridMinutes"`
	Slots           []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Recommended bool   `json:"recommended"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime:   slot.StartTime.String(),
			EndTime:     slot.EndTime.String(),
			Recommended: slot.Recommended,
		}
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		DurationMinutes: resp.DurationMinutes,
		GridMinutes:     resp.GridMinutes,
		Slots:           slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(tenantID int64, dateStr, serviceIDsStr, excludeStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}

	serviceIDs, err := parseIDList(serviceIDsStr)
	if err != nil {
		return nil, err
	}

	req := &getAvailableSlots.Request{
		TenantID:   tenantID,
		Date:       date,
		ServiceIDs: serviceIDs,
	}

	if excludeStr != "" {
		exclude, err := strconv.ParseInt(excludeStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("excludeAppointmentId: %w", err)
		}
		req.ExcludeAppointmentID = &exclude
	}

	return req, nil
}

// parseIDList разбирает "1,2,3"
func parseIDList(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("serviceIds: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
