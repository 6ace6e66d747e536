package model

import (
	"time"

	"github.com/google/uuid"
)

// Device is soft-lifecycle only: registration creates it, login and logout
// flip Active and the timestamps, nothing in this core hard-deletes it.
type Device struct {
	ID                uuid.UUID  `json:"id"`
	UserID            *uuid.UUID `json:"user_id,omitempty"`
	FCMToken          *string    `json:"fcm_token,omitempty"`
	Active            bool       `json:"active"`
	LastLoggedInTime  time.Time  `json:"last_logged_in_time"`
	LastLoggedOutTime *time.Time `json:"last_logged_out_time,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
