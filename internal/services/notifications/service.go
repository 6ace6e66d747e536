package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/OkayJosh/wrappai/internal/domain/enums"
	"github.com/OkayJosh/wrappai/internal/domain/errs"
	"github.com/OkayJosh/wrappai/internal/domain/model"
	"github.com/OkayJosh/wrappai/internal/pkg/compress"
)

type Store interface {
	Create(ctx context.Context, n model.Notification) (model.Notification, error)
	GetByID(ctx context.Context, id uuid.UUID) (model.Notification, error)
	MarkSent(ctx context.Context, id uuid.UUID, deliveredAt time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, errorLog string) error
	UpdateMessage(ctx context.Context, id uuid.UUID, compressed []byte) error
	ListDue(ctx context.Context, now time.Time, limit int) ([]model.Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error)
}

type UserStore interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type StudioStore interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	store   Store
	users   UserStore
	studios StudioStore
	now     func() time.Time
}

func NewService(store Store, users UserStore, studios StudioStore) *Service {
	return &Service{
		store:   store,
		users:   users,
		studios: studios,
		now:     time.Now,
	}
}

type CreateInput struct {
	UserID   *uuid.UUID
	StudioID *uuid.UUID
	Channel  enums.NotificationChannel
	Subject  *string
	Message  string
	SendAt   *time.Time
}

// Create compresses the message exactly once and persists only the compressed
// bytes. A compression fault aborts the whole create; nothing is stored.
func (s *Service) Create(ctx context.Context, in CreateInput) (model.Notification, error) {
	if s.store == nil {
		return model.Notification{}, fmt.Errorf("notification dependencies are not configured")
	}

	if in.UserID == nil && in.StudioID == nil {
		return model.Notification{}, errs.Validationf("notification needs a user or studio recipient")
	}
	if in.Channel == "" {
		in.Channel = enums.NotificationChannelWhatsApp
	}
	if !in.Channel.Valid() {
		return model.Notification{}, errs.Validationf("notification channel %q", in.Channel)
	}

	if in.UserID != nil && s.users != nil {
		exists, err := s.users.Exists(ctx, *in.UserID)
		if err != nil {
			return model.Notification{}, err
		}
		if !exists {
			return model.Notification{}, errs.NotFoundf("user %s", *in.UserID)
		}
	}
	if in.StudioID != nil && s.studios != nil {
		exists, err := s.studios.Exists(ctx, *in.StudioID)
		if err != nil {
			return model.Notification{}, err
		}
		if !exists {
			return model.Notification{}, errs.NotFoundf("studio %s", *in.StudioID)
		}
	}

	compressed, err := compress.Compress([]byte(in.Message))
	if err != nil {
		return model.Notification{}, err
	}

	sendAt := s.now().UTC()
	if in.SendAt != nil {
		sendAt = in.SendAt.UTC()
	}

	return s.store.Create(ctx, model.Notification{
		UserID:   in.UserID,
		StudioID: in.StudioID,
		Channel:  in.Channel,
		Status:   enums.NotificationStatusPending,
		Subject:  in.Subject,
		Message:  compressed,
		SendAt:   sendAt,
	})
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (model.Notification, error) {
	if s.store == nil {
		return model.Notification{}, fmt.Errorf("notification dependencies are not configured")
	}
	return s.store.GetByID(ctx, id)
}

// Message loads the notification and decompresses its body. Corrupt stored
// bytes surface as a decompression error, never as an empty string.
func (s *Service) Message(ctx context.Context, id uuid.UUID) (string, error) {
	if s.store == nil {
		return "", fmt.Errorf("notification dependencies are not configured")
	}

	n, err := s.store.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	plain, err := compress.Decompress(n.Message)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// UpdateMessage replaces the body of a still-pending notification, compressing
// the new plaintext the same way Create does.
func (s *Service) UpdateMessage(ctx context.Context, id uuid.UUID, message string) error {
	if s.store == nil {
		return fmt.Errorf("notification dependencies are not configured")
	}

	compressed, err := compress.Compress([]byte(message))
	if err != nil {
		return err
	}
	return s.store.UpdateMessage(ctx, id, compressed)
}

// MarkSent finalizes delivery. Only pending notifications can move; the store
// rejects anything already terminal.
func (s *Service) MarkSent(ctx context.Context, id uuid.UUID) error {
	if s.store == nil {
		return fmt.Errorf("notification dependencies are not configured")
	}
	return s.store.MarkSent(ctx, id, s.now().UTC())
}

// MarkFailed finalizes a failed delivery, keeping the gateway's error for the
// audit trail.
func (s *Service) MarkFailed(ctx context.Context, id uuid.UUID, errorLog string) error {
	if s.store == nil {
		return fmt.Errorf("notification dependencies are not configured")
	}
	return s.store.MarkFailed(ctx, id, errorLog)
}

// ListDue returns pending notifications whose send time has passed.
func (s *Service) ListDue(ctx context.Context, limit int) ([]model.Notification, error) {
	if s.store == nil {
		return nil, fmt.Errorf("notification dependencies are not configured")
	}
	return s.store.ListDue(ctx, s.now().UTC(), limit)
}

func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error) {
	if s.store == nil {
		return nil, fmt.Errorf("notification dependencies are not configured")
	}
	if userID == uuid.Nil {
		return nil, errs.Validationf("notification user is required")
	}
	return s.store.ListByUser(ctx, userID, limit)
}
