package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/OkayJosh/wrappai/internal/domain/enums"
)

// Notification keeps its message body compressed at rest; the plaintext only
// ever exists in memory. Deleting the owning user or studio nulls the
// reference instead of deleting the row.
type Notification struct {
	ID          uuid.UUID                 `json:"id"`
	UserID      *uuid.UUID                `json:"user_id,omitempty"`
	StudioID    *uuid.UUID                `json:"studio_id,omitempty"`
	Channel     enums.NotificationChannel `json:"channel"`
	Status      enums.NotificationStatus  `json:"status"`
	Subject     *string                   `json:"subject,omitempty"`
	Message     []byte                    `json:"-"`
	SendAt      time.Time                 `json:"send_at"`
	DeliveredAt *time.Time                `json:"delivered_at,omitempty"`
	ErrorLog    *string                   `json:"error_log,omitempty"`
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   time.Time                 `json:"updated_at"`
}
