package catalog

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена у арендатора
	ErrServiceNotFound = errors.New("catalog.repository: service not found")

	// ErrDuplicateService возвращается при повторном имени услуги
	ErrDuplicateService = errors.New("catalog.repository: service already exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("catalog.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("catalog.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("catalog.repository: failed to scan row")
)
