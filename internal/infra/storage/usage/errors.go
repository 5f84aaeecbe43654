package usage

import "errors"

var (
	// ErrUsageNotFound возвращается, когда нет счётчиков за период
	ErrUsageNotFound = errors.New("usage.repository: usage counter not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("usage.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("usage.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("usage.repository: failed to scan row")
)
