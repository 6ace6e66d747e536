package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/OkayJosh/wrappai/internal/domain/enums"
)

// Interaction is an append-only audit entry: one user, exactly one target out
// of the four reference fields, immutable once written.
type Interaction struct {
	ID         uuid.UUID             `json:"id"`
	UserID     uuid.UUID             `json:"user_id"`
	MusicID    *uuid.UUID            `json:"music_id,omitempty"`
	PhotoID    *uuid.UUID            `json:"photo_id,omitempty"`
	VideoID    *uuid.UUID            `json:"video_id,omitempty"`
	PlaylistID *uuid.UUID            `json:"playlist_id,omitempty"`
	Type       enums.InteractionType `json:"interaction_type"`
	Timestamp  time.Time             `json:"timestamp"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

// TargetRefs returns the non-nil target references, used to enforce the
// exactly-one-target rule.
func (i Interaction) TargetRefs() []*uuid.UUID {
	refs := make([]*uuid.UUID, 0, 4)
	for _, ref := range []*uuid.UUID{i.MusicID, i.PhotoID, i.VideoID, i.PlaylistID} {
		if ref != nil {
			refs = append(refs, ref)
		}
	}
	return refs
}
