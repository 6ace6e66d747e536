package interactions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/OkayJosh/wrappai/internal/domain/enums"
	"github.com/OkayJosh/wrappai/internal/domain/errs"
	"github.com/OkayJosh/wrappai/internal/domain/model"
)

type Store interface {
	Insert(ctx context.Context, rec model.Interaction) (model.Interaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Interaction, error)
}

type UserStore interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	store Store
	users UserStore
	now   func() time.Time
}

func NewService(store Store, users UserStore) *Service {
	return &Service{
		store: store,
		users: users,
		now:   time.Now,
	}
}

type RecordInput struct {
	UserID     uuid.UUID
	MusicID    *uuid.UUID
	PhotoID    *uuid.UUID
	VideoID    *uuid.UUID
	PlaylistID *uuid.UUID
	Type       enums.InteractionType
	Timestamp  *time.Time
}

// Record appends one ledger entry. The entry must name the acting user and
// exactly one target; once written it is never changed.
func (s *Service) Record(ctx context.Context, in RecordInput) (model.Interaction, error) {
	if s.store == nil || s.users == nil {
		return model.Interaction{}, fmt.Errorf("interaction dependencies are not configured")
	}

	if in.UserID == uuid.Nil {
		return model.Interaction{}, errs.Validationf("interaction user is required")
	}
	if !in.Type.Valid() {
		return model.Interaction{}, errs.Validationf("interaction type %q", in.Type)
	}

	rec := model.Interaction{
		UserID:     in.UserID,
		MusicID:    in.MusicID,
		PhotoID:    in.PhotoID,
		VideoID:    in.VideoID,
		PlaylistID: in.PlaylistID,
		Type:       in.Type,
	}
	if targets := rec.TargetRefs(); len(targets) != 1 {
		return model.Interaction{}, errs.Validationf("interaction must reference exactly one target, got %d", len(targets))
	}

	exists, err := s.users.Exists(ctx, in.UserID)
	if err != nil {
		return model.Interaction{}, err
	}
	if !exists {
		return model.Interaction{}, errs.NotFoundf("user %s", in.UserID)
	}

	if in.Timestamp != nil {
		rec.Timestamp = in.Timestamp.UTC()
	} else {
		rec.Timestamp = s.now().UTC()
	}

	return s.store.Insert(ctx, rec)
}

func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Interaction, error) {
	if s.store == nil {
		return nil, fmt.Errorf("interaction dependencies are not configured")
	}
	if userID == uuid.Nil {
		return nil, errs.Validationf("interaction user is required")
	}
	return s.store.ListByUser(ctx, userID, limit)
}
