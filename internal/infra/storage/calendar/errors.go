package calendar

import "errors"

var (
	// ErrWorkingHoursNotFound возвращается, когда на день недели нет действующих рабочих часов
	ErrWorkingHoursNotFound = errors.New("calendar.repository: working hours not found")

	// ErrDayOffNotFound возвращается, когда выходной на дату не найден
	ErrDayOffNotFound = errors.New("calendar.repository: day off not found")

	// ErrDuplicateWeekday возвращается при второй действующей записи на тот же день недели
	ErrDuplicateWeekday = errors.New("calendar.repository: active working hours for weekday already exist")

	// ErrDuplicateDayOff возвращается при повторном добавлении выходного на ту же дату
	ErrDuplicateDayOff = errors.New("calendar.repository: day off already exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("calendar.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("calendar.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("calendar.repository: failed to scan row")
)
