package publish

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/zionge2k/news-alert-system/internal/apperr"
	"github.com/zionge2k/news-alert-system/internal/models"
	"github.com/zionge2k/news-alert-system/internal/queueengine"
	"github.com/zionge2k/news-alert-system/internal/store"
)

type fakeChatTarget struct {
	mu      sync.Mutex
	sent    []Message
	failFor map[string]error
}

func (f *fakeChatTarget) Send(ctx context.Context, msg Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor != nil {
		if err, ok := f.failFor[msg.URL]; ok {
			return err
		}
	}
	f.sent = append(f.sent, msg)
	return nil
}

func newTestWorker(t *testing.T, target ChatTarget, cfg Config) (*Worker, *queueengine.Engine, store.PublishedSet) {
	t.Helper()
	queue := queueengine.New(store.NewMemoryQueueStore(), zap.NewNop())
	published := store.NewMemoryPublishedSet()
	if cfg.Concurrency == 0 {
		cfg.Concurrency = 2
	}
	w := New(cfg, queue, published, target, nil, zap.NewNop())
	return w, queue, published
}

func enqueueItem(t *testing.T, queue *queueengine.Engine, uniqueID string) {
	t.Helper()
	_, err := queue.Enqueue(context.Background(), &models.Article{
		UniqueID: uniqueID,
		Platform: "YTN",
		Title:    "t",
		URL:      "https://ytn.co.kr/" + uniqueID,
	})
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
}

func TestRunCycleDispatchesAndCompletesSuccessfulItems(t *testing.T) {
	target := &fakeChatTarget{}
	w, queue, published := newTestWorker(t, target, Config{BatchSize: 10, ChannelID: "chan-1"})
	ctx := context.Background()

	enqueueItem(t, queue, "ok-1")

	n, err := w.runCycle(ctx)
	if err != nil {
		t.Fatalf("runCycle failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 item claimed, got %d", n)
	}

	counts, err := queue.Status(ctx)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if counts[models.StatusCompleted] != 1 {
		t.Fatalf("expected item to complete, got %+v", counts)
	}

	hit, err := published.Contains(ctx, "ok-1")
	if err != nil || !hit {
		t.Fatalf("expected published-set entry, hit=%v err=%v", hit, err)
	}
}

func TestRunCycleFailsItemOnSendError(t *testing.T) {
	target := &fakeChatTarget{failFor: map[string]error{
		"https://ytn.co.kr/bad-1": apperr.Permanent("ChatTarget.Send", errors.New("webhook broken")),
	}}
	w, queue, _ := newTestWorker(t, target, Config{BatchSize: 10})
	ctx := context.Background()

	enqueueItem(t, queue, "bad-1")

	if _, err := w.runCycle(ctx); err != nil {
		t.Fatalf("runCycle should not itself error on a dispatch failure: %v", err)
	}

	counts, err := queue.Status(ctx)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if counts[models.StatusFailed] != 1 {
		t.Fatalf("expected item to be marked FAILED, got %+v", counts)
	}
}

func TestRunCycleReturnsZeroOnEmptyQueue(t *testing.T) {
	target := &fakeChatTarget{}
	w, _, _ := newTestWorker(t, target, Config{BatchSize: 10})

	n, err := w.runCycle(context.Background())
	if err != nil {
		t.Fatalf("unexpected error on empty queue: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 items claimed from an empty queue, got %d", n)
	}
}

func TestMaintainIfDueRunsAtMostOncePerInterval(t *testing.T) {
	target := &fakeChatTarget{}
	w, queue, _ := newTestWorker(t, target, Config{
		BatchSize:        10,
		MaxRetries:       3,
		CleanAge:         time.Hour,
		StuckThreshold:   time.Minute,
		MaintenanceEvery: time.Hour,
	})
	ctx := context.Background()

	enqueueItem(t, queue, "stuck-1")
	if _, err := queue.Claim(ctx, 1); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	w.maintainIfDue(ctx)
	firstRun := w.lastMaintain
	if firstRun.IsZero() {
		t.Fatal("expected maintainIfDue to run on first call")
	}

	w.maintainIfDue(ctx)
	if !w.lastMaintain.Equal(firstRun) {
		t.Fatal("maintainIfDue should not re-run before MaintenanceEvery elapses")
	}
}
