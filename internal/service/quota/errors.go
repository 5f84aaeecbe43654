package quota

import (
	"errors"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrUnknownPlan возвращается, когда тариф арендатора отсутствует в конфигурации
	ErrUnknownPlan = domain.NewError(domain.ErrConfiguration, "tenant plan is not configured")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("quota.service: internal error")
)
