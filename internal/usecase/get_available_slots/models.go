package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Options параметры сетки слотов
type Options struct {
	Location      *time.Location
	GridMinutes   int
	PreferredFrom types.TimeString // пусто - без рекомендаций
	PreferredTo   types.TimeString
}

// Request модель запроса на получение доступных слотов
type Request struct {
	TenantID             int64
	Date                 time.Time // Дата (без времени)
	ServiceIDs           []int64
	ExcludeAppointmentID *int64 // редактируемая запись не мешает сама себе
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date            time.Time
	DurationMinutes int // Суммарная длительность услуг
	GridMinutes     int
	Slots           []Slot
}

// Slot модель временного слота
type Slot struct {
	StartTime   types.TimeString
	EndTime     types.TimeString
	Recommended bool // начало внутри предпочтительного окна
}
