package studios

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/OkayJosh/wrappai/internal/domain/enums"
	"github.com/OkayJosh/wrappai/internal/domain/errs"
	"github.com/OkayJosh/wrappai/internal/domain/model"
	"github.com/OkayJosh/wrappai/internal/pkg/validate"
)

type Store interface {
	Create(ctx context.Context, studio model.Studio) (model.Studio, error)
	GetByID(ctx context.Context, id uuid.UUID) (model.Studio, error)
	SetStatus(ctx context.Context, id uuid.UUID, status enums.StudioStatus) error
	DeleteCascade(ctx context.Context, id uuid.UUID) error
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

type CreateInput struct {
	UserID      *uuid.UUID
	Name        string
	Description string
	PictureURL  *string
}

// Create registers a studio in review. Approval is a separate moderation
// step; a fresh studio is never born approved.
func (s *Service) Create(ctx context.Context, in CreateInput) (model.Studio, error) {
	if s.store == nil {
		return model.Studio{}, fmt.Errorf("studios store is not configured")
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if !validate.Required(in.Name) {
		return model.Studio{}, errs.Validationf("studio name is required")
	}
	if !validate.Required(in.Description) {
		return model.Studio{}, errs.Validationf("studio description is required")
	}

	if in.UserID != nil {
		if s.users == nil {
			return model.Studio{}, fmt.Errorf("studios user store is not configured")
		}
		exists, err := s.users.Exists(ctx, *in.UserID)
		if err != nil {
			return model.Studio{}, fmt.Errorf("check studio owner: %w", err)
		}
		if !exists {
			return model.Studio{}, errs.Validationf("user %s does not exist", *in.UserID)
		}
	}

	studio := model.Studio{
		UserID:      in.UserID,
		Status:      enums.StudioStatusInReview,
		Name:        in.Name,
		Description: in.Description,
		PictureURL:  in.PictureURL,
	}

	return s.store.Create(ctx, studio)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (model.Studio, error) {
	if s.store == nil {
		return model.Studio{}, fmt.Errorf("studios store is not configured")
	}
	return s.store.GetByID(ctx, id)
}

// Approve moves a studio out of review. Only studios still in review can be
// approved or rejected.
func (s *Service) Approve(ctx context.Context, id uuid.UUID) error {
	return s.review(ctx, id, enums.StudioStatusApproved)
}

func (s *Service) Reject(ctx context.Context, id uuid.UUID) error {
	return s.review(ctx, id, enums.StudioStatusRejected)
}

func (s *Service) Suspend(ctx context.Context, id uuid.UUID) error {
	if s.store == nil {
		return fmt.Errorf("studios store is not configured")
	}

	studio, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if studio.Status != enums.StudioStatusApproved {
		return errs.InvalidStatef("studio %s is %s, only approved studios can be suspended", id, studio.Status)
	}

	return s.store.SetStatus(ctx, id, enums.StudioStatusSuspended)
}

func (s *Service) review(ctx context.Context, id uuid.UUID, to enums.StudioStatus) error {
	if s.store == nil {
		return fmt.Errorf("studios store is not configured")
	}

	studio, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if studio.Status != enums.StudioStatusInReview {
		return errs.InvalidStatef("studio %s is %s, not in review", id, studio.Status)
	}

	return s.store.SetStatus(ctx, id, to)
}

// Delete removes the studio with its playlists and their media; studio
// notifications stay behind with the reference nulled.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if s.store == nil {
		return fmt.Errorf("studios store is not configured")
	}
	return s.store.DeleteCascade(ctx, id)
}
