package calendar

import (
	"errors"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidWeekday возвращается при дне недели вне 0..6
	ErrInvalidWeekday = domain.NewError(domain.ErrBadRequest, "weekday must be between 0 (Monday) and 6 (Sunday)")

	// ErrInvalidTime возвращается при некорректном формате времени
	ErrInvalidTime = domain.NewError(domain.ErrBadRequest, "time must be in HH:MM format")

	// ErrCloseBeforeOpen возвращается, когда закрытие не позже открытия
	ErrCloseBeforeOpen = domain.NewError(domain.ErrBadRequest, "close time must be after open time")

	// ErrDuplicateWeekday возвращается при второй действующей записи на день недели
	ErrDuplicateWeekday = domain.NewError(domain.ErrBadRequest, "working hours for this weekday already exist")

	// ErrDayOffInPast возвращается при добавлении выходного в прошлом
	ErrDayOffInPast = domain.NewError(domain.ErrBadRequest, "day off cannot be in the past")

	// ErrDayOffExists возвращается при повторном добавлении выходного
	ErrDayOffExists = domain.NewError(domain.ErrConflict, "day off already exists for this date")

	// ErrDayOffNotFound возвращается, когда выходного на дату нет
	ErrDayOffNotFound = domain.NewError(domain.ErrNotFound, "day off not found")

	// ErrReasonTooLong возвращается при слишком длинной причине
	ErrReasonTooLong = domain.NewError(domain.ErrBadRequest, "reason must be at most 500 characters")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("calendar.service: internal error")
)
