package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/OkayJosh/wrappai/internal/domain/enums"
	"github.com/OkayJosh/wrappai/internal/domain/errs"
	"github.com/OkayJosh/wrappai/internal/domain/model"
	"github.com/OkayJosh/wrappai/internal/pkg/compress"
)

type fakeService struct {
	items  map[uuid.UUID]model.Notification
	stolen map[uuid.UUID]bool
}

func newFakeService() *fakeService {
	return &fakeService{
		items:  make(map[uuid.UUID]model.Notification),
		stolen: make(map[uuid.UUID]bool),
	}
}

func (f *fakeService) add(message []byte) model.Notification {
	n := model.Notification{
		ID:      uuid.New(),
		Channel: enums.NotificationChannelEmail,
		Status:  enums.NotificationStatusPending,
		Message: message,
		SendAt:  time.Now().UTC().Add(-time.Minute),
	}
	f.items[n.ID] = n
	return n
}

func (f *fakeService) ListDue(context.Context, int) ([]model.Notification, error) {
	var due []model.Notification
	for _, n := range f.items {
		if n.Status == enums.NotificationStatusPending {
			due = append(due, n)
		}
	}
	return due, nil
}

func (f *fakeService) MarkSent(_ context.Context, id uuid.UUID) error {
	n, ok := f.items[id]
	if !ok {
		return errs.NotFoundf("notification %s", id)
	}
	if f.stolen[id] || n.Status != enums.NotificationStatusPending {
		return errs.InvalidStatef("notification %s already left pending", id)
	}
	n.Status = enums.NotificationStatusSent
	f.items[id] = n
	return nil
}

func (f *fakeService) MarkFailed(_ context.Context, id uuid.UUID, errorLog string) error {
	n, ok := f.items[id]
	if !ok {
		return errs.NotFoundf("notification %s", id)
	}
	if f.stolen[id] || n.Status != enums.NotificationStatusPending {
		return errs.InvalidStatef("notification %s already left pending", id)
	}
	n.Status = enums.NotificationStatusFailed
	n.ErrorLog = &errorLog
	f.items[id] = n
	return nil
}

type fakeGateway struct {
	delivered map[uuid.UUID]string
	failOn    map[uuid.UUID]error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		delivered: make(map[uuid.UUID]string),
		failOn:    make(map[uuid.UUID]error),
	}
}

func (f *fakeGateway) Deliver(_ context.Context, n model.Notification, message string) error {
	if err := f.failOn[n.ID]; err != nil {
		return err
	}
	f.delivered[n.ID] = message
	return nil
}

func compressed(t *testing.T, message string) []byte {
	t.Helper()
	b, err := compress.Compress([]byte(message))
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	return b
}

func TestRunDeliversAndMarksSent(t *testing.T) {
	svc := newFakeService()
	gw := newFakeGateway()
	n := svc.add(compressed(t, "welcome aboard"))

	job := New(svc, gw, 10, nil)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run dispatch: %v", err)
	}

	if gw.delivered[n.ID] != "welcome aboard" {
		t.Fatalf("gateway received %q", gw.delivered[n.ID])
	}
	if svc.items[n.ID].Status != enums.NotificationStatusSent {
		t.Fatalf("expected sent, got %s", svc.items[n.ID].Status)
	}
}

func TestRunMarksFailedOnGatewayError(t *testing.T) {
	svc := newFakeService()
	gw := newFakeGateway()
	n := svc.add(compressed(t, "will bounce"))
	gw.failOn[n.ID] = errors.New("smtp 550")

	job := New(svc, gw, 10, nil)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run dispatch: %v", err)
	}

	got := svc.items[n.ID]
	if got.Status != enums.NotificationStatusFailed {
		t.Fatalf("expected failed, got %s", got.Status)
	}
	if got.ErrorLog == nil || *got.ErrorLog != "smtp 550" {
		t.Fatalf("gateway error not recorded")
	}
}

func TestRunFailsUnreadableBodyWithoutDelivering(t *testing.T) {
	svc := newFakeService()
	gw := newFakeGateway()
	n := svc.add([]byte{0x00, 0x01, 0x02})

	job := New(svc, gw, 10, nil)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run dispatch: %v", err)
	}

	if _, ok := gw.delivered[n.ID]; ok {
		t.Fatalf("corrupt notification must not reach the gateway")
	}
	if svc.items[n.ID].Status != enums.NotificationStatusFailed {
		t.Fatalf("expected failed, got %s", svc.items[n.ID].Status)
	}
}

func TestRunSkipsNotificationsFinalizedElsewhere(t *testing.T) {
	svc := newFakeService()
	gw := newFakeGateway()
	n := svc.add(compressed(t, "raced"))
	svc.stolen[n.ID] = true

	job := New(svc, gw, 10, nil)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("losing the compare-and-swap must not fail the run: %v", err)
	}
}
