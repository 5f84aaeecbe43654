package catalog

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена у арендатора
	ErrServiceNotFound = domain.NewError(domain.ErrNotFound, "service not found")

	// ErrDuplicateService возвращается при повторном имени действующей услуги
	ErrDuplicateService = domain.NewError(domain.ErrBadRequest, "an active service with this name already exists")

	// ErrInvalidName возвращается при пустом или слишком длинном имени
	ErrInvalidName = domain.NewError(domain.ErrBadRequest,
		fmt.Sprintf("service name must be 1-%d characters", domain.MaxServiceNameLength))

	// ErrInvalidDuration возвращается при длительности вне допустимого диапазона
	ErrInvalidDuration = domain.NewError(domain.ErrBadRequest,
		fmt.Sprintf("duration must be between %d and %d minutes", domain.MinServiceDuration, domain.MaxServiceDuration))

	// ErrNegativePrice возвращается при отрицательной цене
	ErrNegativePrice = domain.NewError(domain.ErrBadRequest, "price must not be negative")

	// ErrAlreadyInactive возвращается при повторной деактивации
	ErrAlreadyInactive = domain.NewError(domain.ErrBadRequest, "service is already inactive")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("catalog.service: internal error")
)
