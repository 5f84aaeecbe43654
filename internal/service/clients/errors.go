package clients

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrClientNotFound возвращается, когда клиент не найден у арендатора
	ErrClientNotFound = domain.NewError(domain.ErrNotFound, "client not found")

	// ErrInvalidName возвращается при пустом или слишком длинном имени
	ErrInvalidName = domain.NewError(domain.ErrBadRequest,
		fmt.Sprintf("client name must be 1-%d characters", domain.MaxClientNameLength))

	// ErrInvalidEmail возвращается при некорректном email
	ErrInvalidEmail = domain.NewError(domain.ErrBadRequest, "invalid email")

	// ErrInvalidPagination возвращается при некорректных limit/offset
	ErrInvalidPagination = domain.NewError(domain.ErrBadRequest,
		fmt.Sprintf("limit must be between 1 and %d", MaxPageSize))

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("clients.service: internal error")
)
