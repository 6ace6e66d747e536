package cleanup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/OkayJosh/wrappai/internal/domain/enums"
	"github.com/OkayJosh/wrappai/internal/domain/model"
)

type fakeMediaStore struct {
	items map[uuid.UUID]model.MediaItem
}

func (f *fakeMediaStore) ListDeletedBefore(_ context.Context, cutoff time.Time, limit int) ([]model.MediaItem, error) {
	var out []model.MediaItem
	for _, item := range f.items {
		if item.Status == enums.MediaStatusDeleted && item.DeletedAt != nil && item.DeletedAt.Before(cutoff) {
			out = append(out, item)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeMediaStore) Purge(_ context.Context, id uuid.UUID) error {
	delete(f.items, id)
	return nil
}

type fakeStorage struct {
	deleted []string
	failOn  string
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	if key == f.failOn {
		return errors.New("storage unavailable")
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func deletedItem(path string, deletedAt time.Time) model.MediaItem {
	return model.MediaItem{MediaCore: model.MediaCore{
		ID:          uuid.New(),
		Kind:        enums.MediaKindPhoto,
		Status:      enums.MediaStatusDeleted,
		DeletedAt:   &deletedAt,
		StoragePath: path,
	}}
}

func TestRunPurgesExpiredMediaOnly(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	old := deletedItem("media/photo/old.jpg", now.Add(-31*24*time.Hour))
	fresh := deletedItem("media/photo/fresh.jpg", now.Add(-2*24*time.Hour))

	store := &fakeMediaStore{items: map[uuid.UUID]model.MediaItem{
		old.ID:   old,
		fresh.ID: fresh,
	}}
	storage := &fakeStorage{}

	job := New(store, storage, 30*24*time.Hour, nil)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run cleanup job: %v", err)
	}

	if _, ok := store.items[old.ID]; ok {
		t.Fatalf("expected expired item to be purged")
	}
	if _, ok := store.items[fresh.ID]; !ok {
		t.Fatalf("item inside retention window must survive")
	}
	if len(storage.deleted) != 1 || storage.deleted[0] != "media/photo/old.jpg" {
		t.Fatalf("unexpected storage deletes: %v", storage.deleted)
	}
}

func TestRunKeepsRowWhenObjectDeleteFails(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	old := deletedItem("media/video/stuck.mp4", now.Add(-60*24*time.Hour))

	store := &fakeMediaStore{items: map[uuid.UUID]model.MediaItem{old.ID: old}}
	storage := &fakeStorage{failOn: "media/video/stuck.mp4"}

	job := New(store, storage, 30*24*time.Hour, nil)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run cleanup job: %v", err)
	}

	if _, ok := store.items[old.ID]; !ok {
		t.Fatalf("row must stay for retry when the object delete fails")
	}
}
