package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена у арендатора
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrOverlap возвращается, когда ограничение исключения отклонило пересекающуюся запись
	ErrOverlap = errors.New("appointment.repository: appointment overlaps an active appointment")

	// ErrInvalidReference возвращается, когда клиент или услуга не существуют
	ErrInvalidReference = errors.New("appointment.repository: referenced client or service does not exist")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
