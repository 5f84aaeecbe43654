package create_appointment

import (
	"errors"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrClientNotFound возвращается, когда клиент не найден у арендатора
	ErrClientNotFound = domain.NewError(domain.ErrNotFound, "client not found")

	// ErrServiceNotFound возвращается, когда одна из услуг не найдена у арендатора
	ErrServiceNotFound = domain.NewError(domain.ErrNotFound, "service not found")

	// ErrServiceInactive возвращается при записи на неактивную услугу
	ErrServiceInactive = domain.NewError(domain.ErrBadRequest, "service is inactive")

	// ErrStartInPast возвращается, когда начало записи не в будущем
	ErrStartInPast = domain.NewError(domain.ErrBadRequest, "appointment must start in the future")

	// ErrDayOff возвращается при записи на выходной день
	ErrDayOff = domain.NewError(domain.ErrBadRequest, "the business is closed on this date")

	// ErrOutsideWorkingHours возвращается, когда запись не помещается в рабочие часы
	ErrOutsideWorkingHours = domain.NewError(domain.ErrBadRequest, "appointment is outside working hours")

	// ErrOverlap возвращается, когда ограничение БД отклонило пересекающуюся запись
	ErrOverlap = domain.NewError(domain.ErrConflict, "conflicts with an existing appointment")

	// ErrBusy возвращается, когда календарь на дату занят параллельной записью дольше ожидания
	ErrBusy = domain.NewError(domain.ErrConflict, "calendar is busy, please retry")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.NewError(domain.ErrBadRequest, "invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
