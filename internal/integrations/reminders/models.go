package reminders

import "time"

// TypeCreateReminder тип задачи asynq
const TypeCreateReminder = "reminder:create"

// Channel канал доставки напоминания
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms" // только для планов с sms_whatsapp
)

// Payload тело задачи reminder:create
type Payload struct {
	AppointmentID int64     `json:"appointment_id"`
	TenantID      int64     `json:"tenant_id"`
	ClientID      int64     `json:"client_id"`
	StartAt       time.Time `json:"start_at"`
	Channel       Channel   `json:"channel"`
}
