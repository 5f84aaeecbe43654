package appointments

import (
	"errors"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена у арендатора
	ErrAppointmentNotFound = domain.NewError(domain.ErrNotFound, "appointment not found")

	// ErrNotSeries возвращается, когда запись не является родителем серии
	ErrNotSeries = domain.NewError(domain.ErrNotFound, "recurring series not found")

	// ErrInvalidTransition возвращается при недопустимой смене статуса
	ErrInvalidTransition = domain.NewError(domain.ErrBadRequest, "appointment state transition is not allowed")

	// ErrEmptyPatch возвращается, когда в изменении серии нечего применять
	ErrEmptyPatch = domain.NewError(domain.ErrBadRequest, "series patch is empty")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.NewError(domain.ErrBadRequest, "invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("appointments.service: internal error")
)
