package tenant

import "errors"

var (
	// ErrTenantNotFound возвращается, когда арендатор не найден или отключён
	ErrTenantNotFound = errors.New("tenant.repository: tenant not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("tenant.repository: failed to build query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("tenant.repository: failed to scan row")
)
