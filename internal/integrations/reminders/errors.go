package reminders

import "errors"

var (
	// ErrAppointmentPassed возвращается, когда напоминание уже не имеет смысла
	ErrAppointmentPassed = errors.New("reminders: appointment already started")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("reminders client: internal error")

	// ErrEnqueue возвращается, когда задачу не удалось поставить в очередь
	ErrEnqueue = errors.New("reminders client: enqueue failed")
)
