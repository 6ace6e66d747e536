package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/OkayJosh/wrappai/internal/domain/enums"
)

type Studio struct {
	ID          uuid.UUID          `json:"id"`
	UserID      *uuid.UUID         `json:"user_id,omitempty"`
	Status      enums.StudioStatus `json:"status"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	PictureURL  *string            `json:"picture_url,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}
