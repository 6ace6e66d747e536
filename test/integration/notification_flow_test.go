package integration_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/OkayJosh/wrappai/internal/domain/enums"
	"github.com/OkayJosh/wrappai/internal/domain/errs"
	"github.com/OkayJosh/wrappai/internal/domain/model"
	"github.com/OkayJosh/wrappai/internal/jobs/dispatch"
	notificationssvc "github.com/OkayJosh/wrappai/internal/services/notifications"
)

type memNotificationStore struct {
	items map[uuid.UUID]model.Notification
}

func newMemNotificationStore() *memNotificationStore {
	return &memNotificationStore{items: make(map[uuid.UUID]model.Notification)}
}

func (m *memNotificationStore) Create(_ context.Context, n model.Notification) (model.Notification, error) {
	n.ID = uuid.New()
	now := time.Now().UTC()
	n.CreatedAt, n.UpdatedAt = now, now
	m.items[n.ID] = n
	return n, nil
}

func (m *memNotificationStore) GetByID(_ context.Context, id uuid.UUID) (model.Notification, error) {
	n, ok := m.items[id]
	if !ok {
		return model.Notification{}, errs.NotFoundf("notification %s", id)
	}
	return n, nil
}

func (m *memNotificationStore) MarkSent(_ context.Context, id uuid.UUID, deliveredAt time.Time) error {
	n, ok := m.items[id]
	if !ok {
		return errs.NotFoundf("notification %s", id)
	}
	if n.Status != enums.NotificationStatusPending {
		return errs.InvalidStatef("notification %s already left pending", id)
	}
	n.Status = enums.NotificationStatusSent
	n.DeliveredAt = &deliveredAt
	m.items[id] = n
	return nil
}

func (m *memNotificationStore) MarkFailed(_ context.Context, id uuid.UUID, errorLog string) error {
	n, ok := m.items[id]
	if !ok {
		return errs.NotFoundf("notification %s", id)
	}
	if n.Status != enums.NotificationStatusPending {
		return errs.InvalidStatef("notification %s already left pending", id)
	}
	n.Status = enums.NotificationStatusFailed
	n.ErrorLog = &errorLog
	m.items[id] = n
	return nil
}

func (m *memNotificationStore) UpdateMessage(_ context.Context, id uuid.UUID, compressed []byte) error {
	n, ok := m.items[id]
	if !ok {
		return errs.NotFoundf("notification %s", id)
	}
	if n.Status != enums.NotificationStatusPending {
		return errs.InvalidStatef("notification %s already left pending", id)
	}
	n.Message = compressed
	m.items[id] = n
	return nil
}

func (m *memNotificationStore) ListDue(_ context.Context, now time.Time, limit int) ([]model.Notification, error) {
	var due []model.Notification
	for _, n := range m.items {
		if n.Status == enums.NotificationStatusPending && !n.SendAt.After(now) {
			due = append(due, n)
		}
		if limit > 0 && len(due) == limit {
			break
		}
	}
	return due, nil
}

func (m *memNotificationStore) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]model.Notification, error) {
	var out []model.Notification
	for _, n := range m.items {
		if n.UserID != nil && *n.UserID == userID {
			out = append(out, n)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type anyExists struct{}

func (anyExists) Exists(context.Context, uuid.UUID) (bool, error) { return true, nil }

type captureGateway struct {
	messages map[uuid.UUID]string
}

func (g *captureGateway) Deliver(_ context.Context, n model.Notification, message string) error {
	g.messages[n.ID] = message
	return nil
}

// The full notification lifecycle: create compressed at rest, dispatch through
// a gateway, finalize sent and stay there.
func TestNotificationPipeline(t *testing.T) {
	ctx := context.Background()
	store := newMemNotificationStore()
	svc := notificationssvc.NewService(store, anyExists{}, anyExists{})

	userID := uuid.New()
	const plaintext = "Hello"

	created, err := svc.Create(ctx, notificationssvc.CreateInput{
		UserID:  &userID,
		Channel: enums.NotificationChannelEmail,
		Message: plaintext,
	})
	if err != nil {
		t.Fatalf("create notification: %v", err)
	}

	stored := store.items[created.ID]
	if bytes.Equal(stored.Message, []byte(plaintext)) {
		t.Fatalf("notification stored in plaintext")
	}

	got, err := svc.Message(ctx, created.ID)
	if err != nil {
		t.Fatalf("read message: %v", err)
	}
	if got != plaintext {
		t.Fatalf("round trip mismatch: %q", got)
	}

	gw := &captureGateway{messages: make(map[uuid.UUID]string)}
	job := dispatch.New(svc, gw, 10, nil)
	if err := job.Run(ctx); err != nil {
		t.Fatalf("dispatch run: %v", err)
	}

	if gw.messages[created.ID] != plaintext {
		t.Fatalf("gateway received %q", gw.messages[created.ID])
	}
	if store.items[created.ID].Status != enums.NotificationStatusSent {
		t.Fatalf("expected sent after dispatch, got %s", store.items[created.ID].Status)
	}

	if err := svc.MarkFailed(ctx, created.ID, "late bounce"); !errors.Is(err, errs.ErrInvalidState) {
		t.Fatalf("sent is terminal, got %v", err)
	}
	if store.items[created.ID].Status != enums.NotificationStatusSent {
		t.Fatalf("terminal status must not change")
	}
}
