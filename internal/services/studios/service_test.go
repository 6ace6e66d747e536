package studios

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/OkayJosh/wrappai/internal/domain/enums"
	"github.com/OkayJosh/wrappai/internal/domain/errs"
	"github.com/OkayJosh/wrappai/internal/domain/model"
)

type fakeStore struct {
	studios map[uuid.UUID]model.Studio
}

func newFakeStore() *fakeStore {
	return &fakeStore{studios: make(map[uuid.UUID]model.Studio)}
}

func (f *fakeStore) Create(_ context.Context, studio model.Studio) (model.Studio, error) {
	studio.ID = uuid.New()
	now := time.Now().UTC()
	studio.CreatedAt, studio.UpdatedAt = now, now
	f.studios[studio.ID] = studio
	return studio, nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (model.Studio, error) {
	studio, ok := f.studios[id]
	if !ok {
		return model.Studio{}, errs.NotFoundf("studio %s", id)
	}
	return studio, nil
}

func (f *fakeStore) SetStatus(_ context.Context, id uuid.UUID, status enums.StudioStatus) error {
	studio, ok := f.studios[id]
	if !ok {
		return errs.NotFoundf("studio %s", id)
	}
	studio.Status = status
	studio.UpdatedAt = time.Now().UTC()
	f.studios[id] = studio
	return nil
}

func (f *fakeStore) DeleteCascade(_ context.Context, id uuid.UUID) error {
	if _, ok := f.studios[id]; !ok {
		return errs.NotFoundf("studio %s", id)
	}
	delete(f.studios, id)
	return nil
}

type allUsers struct{}

func (allUsers) Exists(context.Context, uuid.UUID) (bool, error) { return true, nil }

func TestCreateDefaultsToInReview(t *testing.T) {
	svc := NewService(newFakeStore(), allUsers{})

	studio, err := svc.Create(context.Background(), CreateInput{Name: "Moonlight", Description: "indie label"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if studio.Status != enums.StudioStatusInReview {
		t.Fatalf("expected IN-REVIEW, got %s", studio.Status)
	}
}

func TestCreateRequiresNameAndDescription(t *testing.T) {
	svc := NewService(newFakeStore(), allUsers{})
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{Name: "", Description: "desc"}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing name, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{Name: "Studio", Description: "   "}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing description, got %v", err)
	}
}

func TestApproveOnlyFromReview(t *testing.T) {
	svc := NewService(newFakeStore(), allUsers{})
	ctx := context.Background()

	studio, err := svc.Create(ctx, CreateInput{Name: "Moonlight", Description: "indie label"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Approve(ctx, studio.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	if err := svc.Approve(ctx, studio.ID); !errors.Is(err, errs.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on second approve, got %v", err)
	}
	if err := svc.Reject(ctx, studio.ID); !errors.Is(err, errs.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on reject after approve, got %v", err)
	}
}

func TestSuspendOnlyApproved(t *testing.T) {
	svc := NewService(newFakeStore(), allUsers{})
	ctx := context.Background()

	studio, err := svc.Create(ctx, CreateInput{Name: "Moonlight", Description: "indie label"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Suspend(ctx, studio.ID); !errors.Is(err, errs.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState suspending studio in review, got %v", err)
	}

	if err := svc.Approve(ctx, studio.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := svc.Suspend(ctx, studio.ID); err != nil {
		t.Fatalf("suspend approved studio: %v", err)
	}
}
