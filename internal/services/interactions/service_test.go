package interactions

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
	records []model.Interaction
}

func (f *fakeStore) Insert(_ context.Context, rec model.Interaction) (model.Interaction, error) {
	rec.ID = uuid.New()
	now := time.Now().UTC()
	rec.CreatedAt, rec.UpdatedAt = now, now
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeStore) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]model.Interaction, error) {
	var out []model.Interaction
	for _, rec := range f.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeUserStore struct {
	known map[uuid.UUID]bool
}

func (f *fakeUserStore) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return f.known[id], nil
}

func TestRecordRequiresExactlyOneTarget(t *testing.T) {
	userID := uuid.New()
	svc := NewService(&fakeStore{}, &fakeUserStore{known: map[uuid.UUID]bool{userID: true}})
	ctx := context.Background()

	musicID := uuid.New()
	photoID := uuid.New()

	cases := []struct {
		name string
		in   RecordInput
	}{
		{"no target", RecordInput{UserID: userID, Type: enums.InteractionWatched}},
		{"two targets", RecordInput{UserID: userID, MusicID: &musicID, PhotoID: &photoID, Type: enums.InteractionWatched}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Record(ctx, tc.in); !errors.Is(err, errs.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestRecordRejectsUnknownUser(t *testing.T) {
	svc := NewService(&fakeStore{}, &fakeUserStore{known: map[uuid.UUID]bool{}})

	musicID := uuid.New()
	_, err := svc.Record(context.Background(), RecordInput{
		UserID:  uuid.New(),
		MusicID: &musicID,
		Type:    enums.InteractionWatched,
	})
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecordRejectsBadType(t *testing.T) {
	userID := uuid.New()
	svc := NewService(&fakeStore{}, &fakeUserStore{known: map[uuid.UUID]bool{userID: true}})

	musicID := uuid.New()
	_, err := svc.Record(context.Background(), RecordInput{
		UserID:  userID,
		MusicID: &musicID,
		Type:    enums.InteractionType("LIKED"),
	})
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRecordAppendsEntry(t *testing.T) {
	userID := uuid.New()
	store := &fakeStore{}
	svc := NewService(store, &fakeUserStore{known: map[uuid.UUID]bool{userID: true}})
	ctx := context.Background()

	playlistID := uuid.New()
	when := time.Date(2026, 5, 1, 12, 30, 0, 0, time.UTC)

	rec, err := svc.Record(ctx, RecordInput{
		UserID:     userID,
		PlaylistID: &playlistID,
		Type:       enums.InteractionPaid,
		Timestamp:  &when,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	if rec.ID == uuid.Nil {
		t.Fatalf("expected generated id")
	}
	if !rec.Timestamp.Equal(when) {
		t.Fatalf("expected supplied timestamp %v, got %v", when, rec.Timestamp)
	}
	if rec.PlaylistID == nil || *rec.PlaylistID != playlistID {
		t.Fatalf("playlist target not preserved")
	}

	listed, err := svc.ListForUser(ctx, userID, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", len(listed))
	}
}

func TestRecordDefaultsTimestamp(t *testing.T) {
	userID := uuid.New()
	svc := NewService(&fakeStore{}, &fakeUserStore{known: map[uuid.UUID]bool{userID: true}})
	fixed := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	videoID := uuid.New()
	rec, err := svc.Record(context.Background(), RecordInput{
		UserID:  userID,
		VideoID: &videoID,
		Type:    enums.InteractionSeen,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if !rec.Timestamp.Equal(fixed) {
		t.Fatalf("expected default timestamp %v, got %v", fixed, rec.Timestamp)
	}
}
