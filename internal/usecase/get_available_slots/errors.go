package get_available_slots

import (
	"errors"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrServiceNotFound возвращается, когда одна из услуг не найдена у арендатора
	ErrServiceNotFound = domain.NewError(domain.ErrNotFound, "service not found")

	// ErrServiceInactive возвращается, когда одна из услуг неактивна
	ErrServiceInactive = domain.NewError(domain.ErrBadRequest, "service is inactive")

	// ErrInvalidDate возвращается при запросе слотов на прошедшую дату
	ErrInvalidDate = domain.NewError(domain.ErrBadRequest, "date must not be in the past")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.NewError(domain.ErrBadRequest, "invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
