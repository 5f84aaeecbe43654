package reminders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Enqueuer постановщик задач (*asynq.Client)
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client ставит задачи на создание напоминаний о записи
type Client struct {
	enqueuer Enqueuer
	queue    string
	leadTime time.Duration
	maxRetry int
	now      func() time.Time
	log      Logger
}

// NewClient создает новый экземпляр клиента напоминаний
func NewClient(enqueuer Enqueuer, queue string, leadTime time.Duration, maxRetry int, log Logger) *Client {
	return &Client{
		enqueuer: enqueuer,
		queue:    queue,
		leadTime: leadTime,
		maxRetry: maxRetry,
		now:      time.Now,
		log:      log,
	}
}

// TaskID идентификатор задачи, повторная постановка для той же записи отклоняется asynq
func TaskID(appointmentID int64) string {
	return fmt.Sprintf("reminder:%d", appointmentID)
}

// Schedule ставит напоминание на start - leadTime.
// Если это время уже прошло, задача выполняется сразу.
func (c *Client) Schedule(ctx context.Context, a *domain.Appointment, channel Channel) error {
	now := c.now()
	if !a.StartAt.After(now) {
		return ErrAppointmentPassed
	}

	payload, err := json.Marshal(Payload{
		AppointmentID: a.ID,
		TenantID:      a.TenantID,
		ClientID:      a.ClientID,
		StartAt:       a.StartAt,
		Channel:       channel,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to marshal payload: %v", ErrInternal, err)
	}

	processAt := a.StartAt.Add(-c.leadTime)
	if processAt.Before(now) {
		processAt = now
	}

	task := asynq.NewTask(TypeCreateReminder, payload)
	_, err = c.enqueuer.EnqueueContext(ctx, task,
		asynq.TaskID(TaskID(a.ID)),
		asynq.ProcessAt(processAt),
		asynq.Queue(c.queue),
		asynq.MaxRetry(c.maxRetry),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		// напоминание для этой записи уже стоит в очереди
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEnqueue, err)
	}

	return nil
}

// ScheduleWithGracefulDegradation ставит напоминание, но никогда не возвращает ошибку:
// недоступность очереди не должна ломать создание записи.
// nil-клиент (напоминания выключены) ничего не делает.
func (c *Client) ScheduleWithGracefulDegradation(ctx context.Context, a *domain.Appointment, channel Channel) {
	if c == nil {
		return
	}
	err := c.Schedule(ctx, a, channel)
	switch {
	case err == nil:
		c.log.Info("Reminder scheduled for appointment id=%d, channel=%s", a.ID, channel)
	case errors.Is(err, ErrAppointmentPassed):
		c.log.Info("Reminder skipped for appointment id=%d: already started", a.ID)
	default:
		c.log.Warn("Reminder for appointment id=%d not scheduled: %v", a.ID, err)
	}
}
