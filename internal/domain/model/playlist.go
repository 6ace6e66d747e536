package model

import (
	"time"

	"github.com/google/uuid"
)

type Playlist struct {
	ID          uuid.UUID  `json:"id"`
	StudioID    *uuid.UUID `json:"studio_id,omitempty"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
