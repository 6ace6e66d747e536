package playlists

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
	playlists map[uuid.UUID]model.Playlist
}

func newFakeStore() *fakeStore {
	return &fakeStore{playlists: make(map[uuid.UUID]model.Playlist)}
}

func (f *fakeStore) Create(_ context.Context, playlist model.Playlist) (model.Playlist, error) {
	playlist.ID = uuid.New()
	now := time.Now().UTC()
	playlist.CreatedAt, playlist.UpdatedAt = now, now
	f.playlists[playlist.ID] = playlist
	return playlist, nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (model.Playlist, error) {
	playlist, ok := f.playlists[id]
	if !ok {
		return model.Playlist{}, errs.NotFoundf("playlist %s", id)
	}
	return playlist, nil
}

func (f *fakeStore) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.playlists[id]
	return ok, nil
}

func (f *fakeStore) DeleteCascade(_ context.Context, id uuid.UUID) error {
	if _, ok := f.playlists[id]; !ok {
		return errs.NotFoundf("playlist %s", id)
	}
	delete(f.playlists, id)
	return nil
}

type fakeMediaStore struct {
	items map[uuid.UUID]model.MediaItem
}

func newFakeMediaStore() *fakeMediaStore {
	return &fakeMediaStore{items: make(map[uuid.UUID]model.MediaItem)}
}

func (f *fakeMediaStore) GetByID(_ context.Context, id uuid.UUID) (model.MediaItem, error) {
	item, ok := f.items[id]
	if !ok {
		return model.MediaItem{}, errs.NotFoundf("media item %s", id)
	}
	return item, nil
}

func (f *fakeMediaStore) SetPlaylist(_ context.Context, id uuid.UUID, playlistID *uuid.UUID) error {
	item, ok := f.items[id]
	if !ok {
		return errs.NotFoundf("media item %s", id)
	}
	item.PlaylistID = playlistID
	f.items[id] = item
	return nil
}

func (f *fakeMediaStore) ListByPlaylist(_ context.Context, playlistID uuid.UUID) ([]model.MediaItem, error) {
	var out []model.MediaItem
	for _, item := range f.items {
		if item.PlaylistID != nil && *item.PlaylistID == playlistID {
			out = append(out, item)
		}
	}
	return out, nil
}

type allStudios struct{}

func (allStudios) Exists(context.Context, uuid.UUID) (bool, error) { return true, nil }

func TestCreateRequiresTitle(t *testing.T) {
	svc := NewService(newFakeStore(), allStudios{}, newFakeMediaStore())

	if _, err := svc.Create(context.Background(), CreateInput{Title: "  "}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected ErrValidation for blank title, got %v", err)
	}
}

func TestAttachMediaRepointsSinglePlaylist(t *testing.T) {
	store := newFakeStore()
	media := newFakeMediaStore()
	svc := NewService(store, allStudios{}, media)
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateInput{Title: "Morning Mix"})
	if err != nil {
		t.Fatalf("create first playlist: %v", err)
	}
	second, err := svc.Create(ctx, CreateInput{Title: "Evening Mix"})
	if err != nil {
		t.Fatalf("create second playlist: %v", err)
	}

	itemID := uuid.New()
	media.items[itemID] = model.MediaItem{
		MediaCore: model.MediaCore{ID: itemID, Kind: enums.MediaKindMusic},
	}

	if err := svc.AttachMedia(ctx, first.ID, itemID); err != nil {
		t.Fatalf("attach to first: %v", err)
	}
	if err := svc.AttachMedia(ctx, second.ID, itemID); err != nil {
		t.Fatalf("attach to second: %v", err)
	}

	inFirst, _ := svc.ListMedia(ctx, first.ID)
	inSecond, _ := svc.ListMedia(ctx, second.ID)
	if len(inFirst) != 0 {
		t.Fatalf("item should have left the first playlist, found %d", len(inFirst))
	}
	if len(inSecond) != 1 {
		t.Fatalf("expected item in second playlist, found %d", len(inSecond))
	}
}

func TestAttachMediaUnknownPlaylist(t *testing.T) {
	svc := NewService(newFakeStore(), allStudios{}, newFakeMediaStore())

	err := svc.AttachMedia(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown playlist, got %v", err)
	}
}
