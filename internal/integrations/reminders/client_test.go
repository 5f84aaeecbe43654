package reminders

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type fakeEnqueuer struct {
	task *asynq.Task
	opts map[asynq.OptionType]interface{}
	err  error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.task = task
	f.opts = make(map[asynq.OptionType]interface{}, len(opts))
	for _, o := range opts {
		f.opts[o.Type()] = o.Value()
	}
	return &asynq.TaskInfo{ID: "ok"}, nil
}

var now = time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)

func newTestClient(enq Enqueuer) *Client {
	c := NewClient(enq, "reminders", 24*time.Hour, 3, logger.NewNop())
	c.now = func() time.Time { return now }
	return c
}

func TestClient_Schedule(t *testing.T) {
	enq := &fakeEnqueuer{}
	c := newTestClient(enq)

	a := &domain.Appointment{ID: 15, TenantID: 2, ClientID: 9, StartAt: now.Add(72 * time.Hour)}
	require.NoError(t, c.Schedule(context.Background(), a, ChannelSMS))

	require.NotNil(t, enq.task)
	assert.Equal(t, TypeCreateReminder, enq.task.Type())
	assert.Equal(t, "reminder:15", enq.opts[asynq.TaskIDOpt])
	assert.Equal(t, "reminders", enq.opts[asynq.QueueOpt])
	assert.Equal(t, a.StartAt.Add(-24*time.Hour), enq.opts[asynq.ProcessAtOpt])

	var p Payload
	require.NoError(t, json.Unmarshal(enq.task.Payload(), &p))
	assert.Equal(t, int64(15), p.AppointmentID)
	assert.Equal(t, int64(2), p.TenantID)
	assert.Equal(t, ChannelSMS, p.Channel)
}

func TestClient_ScheduleInsideLeadTime(t *testing.T) {
	enq := &fakeEnqueuer{}
	c := newTestClient(enq)

	a := &domain.Appointment{ID: 1, StartAt: now.Add(2 * time.Hour)}
	require.NoError(t, c.Schedule(context.Background(), a, ChannelEmail))

	assert.Equal(t, now, enq.opts[asynq.ProcessAtOpt])
}

func TestClient_SchedulePastAppointment(t *testing.T) {
	enq := &fakeEnqueuer{}
	c := newTestClient(enq)

	err := c.Schedule(context.Background(), &domain.Appointment{ID: 1, StartAt: now}, ChannelEmail)
	assert.ErrorIs(t, err, ErrAppointmentPassed)
	assert.Nil(t, enq.task)
}

func TestClient_ScheduleErrors(t *testing.T) {
	a := &domain.Appointment{ID: 1, StartAt: now.Add(48 * time.Hour)}

	dup := newTestClient(&fakeEnqueuer{err: asynq.ErrTaskIDConflict})
	assert.NoError(t, dup.Schedule(context.Background(), a, ChannelEmail))

	down := newTestClient(&fakeEnqueuer{err: errors.New("dial tcp: refused")})
	assert.ErrorIs(t, down.Schedule(context.Background(), a, ChannelEmail), ErrEnqueue)

	// ошибка очереди не пробрасывается наружу
	down.ScheduleWithGracefulDegradation(context.Background(), a, ChannelEmail)
}

func TestClient_NilIsNoop(t *testing.T) {
	var c *Client
	assert.NotPanics(t, func() {
		c.ScheduleWithGracefulDegradation(context.Background(), &domain.Appointment{ID: 1, StartAt: now}, ChannelSMS)
	})
}
