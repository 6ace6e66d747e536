package enums

type NotificationChannel string

const (
	NotificationChannelEmail    NotificationChannel = "email"
	NotificationChannelSMS      NotificationChannel = "sms"
	NotificationChannelWhatsApp NotificationChannel = "whatsapp"
)

func (c NotificationChannel) Valid() bool {
	switch c {
	case NotificationChannelEmail, NotificationChannelSMS, NotificationChannelWhatsApp:
		return true
	default:
		return false
	}
}

// NotificationStatus is a one-way machine: pending is the only state with
// outgoing transitions, sent and failed are terminal.
type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

func (s NotificationStatus) Valid() bool {
	switch s {
	case NotificationStatusPending, NotificationStatusSent, NotificationStatusFailed:
		return true
	default:
		return false
	}
}

func (s NotificationStatus) Terminal() bool {
	return s == NotificationStatusSent || s == NotificationStatusFailed
}
