package devices

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/OkayJosh/wrappai/internal/domain/errs"
	"github.com/OkayJosh/wrappai/internal/domain/model"
)

type Store interface {
	Create(ctx context.Context, device model.Device) (model.Device, error)
	GetByID(ctx context.Context, id uuid.UUID) (model.Device, error)
	MarkLoggedIn(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkLoggedOut(ctx context.Context, id uuid.UUID, at time.Time) error
	SetUser(ctx context.Context, id uuid.UUID, userID *uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Device, error)
}

type UserStore interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service owns the soft device lifecycle: registration, login, logout and
// user binding. Nothing here hard-deletes a device; user deletion does that
// through the user cascade.
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

type RegisterInput struct {
	UserID   *uuid.UUID
	FCMToken *string
}

// Register creates a device record, optionally bound to a user. The push
// token is stored verbatim; the token issuer owns its format.
func (s *Service) Register(ctx context.Context, in RegisterInput) (model.Device, error) {
	if s.store == nil {
		return model.Device{}, fmt.Errorf("devices store is not configured")
	}

	if in.UserID != nil {
		if err := s.requireUser(ctx, *in.UserID); err != nil {
			return model.Device{}, err
		}
	}
	if in.FCMToken != nil && strings.TrimSpace(*in.FCMToken) == "" {
		in.FCMToken = nil
	}

	device := model.Device{
		UserID:           in.UserID,
		FCMToken:         in.FCMToken,
		Active:           false,
		LastLoggedInTime: s.now().UTC(),
	}

	return s.store.Create(ctx, device)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (model.Device, error) {
	if s.store == nil {
		return model.Device{}, fmt.Errorf("devices store is not configured")
	}
	return s.store.GetByID(ctx, id)
}

func (s *Service) Login(ctx context.Context, id uuid.UUID) error {
	if s.store == nil {
		return fmt.Errorf("devices store is not configured")
	}
	return s.store.MarkLoggedIn(ctx, id, s.now().UTC())
}

func (s *Service) Logout(ctx context.Context, id uuid.UUID) error {
	if s.store == nil {
		return fmt.Errorf("devices store is not configured")
	}
	return s.store.MarkLoggedOut(ctx, id, s.now().UTC())
}

func (s *Service) Bind(ctx context.Context, id, userID uuid.UUID) error {
	if s.store == nil {
		return fmt.Errorf("devices store is not configured")
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}
	return s.store.SetUser(ctx, id, &userID)
}

func (s *Service) Unbind(ctx context.Context, id uuid.UUID) error {
	if s.store == nil {
		return fmt.Errorf("devices store is not configured")
	}
	return s.store.SetUser(ctx, id, nil)
}

func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Device, error) {
	if s.store == nil {
		return nil, fmt.Errorf("devices store is not configured")
	}
	return s.store.ListByUser(ctx, userID)
}

func (s *Service) requireUser(ctx context.Context, userID uuid.UUID) error {
	if s.users == nil {
		return fmt.Errorf("devices user store is not configured")
	}
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("check device user: %w", err)
	}
	if !exists {
		return errs.Validationf("user %s does not exist", userID)
	}
	return nil
}
