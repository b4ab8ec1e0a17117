package queueengine

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/zionge2k/news-alert-system/internal/apperr"
	"github.com/zionge2k/news-alert-system/internal/models"
	"github.com/zionge2k/news-alert-system/internal/store"
)

func newTestEngine() *Engine {
	return New(store.NewMemoryQueueStore(), zap.NewNop())
}

func newTestArticle(uniqueID string) *models.Article {
	return &models.Article{
		UniqueID: uniqueID,
		Platform: "YTN",
		Title:    "headline",
		URL:      "https://ytn.co.kr/" + uniqueID,
	}
}

func TestEngineEnqueueDuplicateReturnsFalseNotError(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	ok, err := e.Enqueue(ctx, newTestArticle("dup-1"))
	if err != nil || !ok {
		t.Fatalf("first enqueue should succeed, got ok=%v err=%v", ok, err)
	}

	ok, err = e.Enqueue(ctx, newTestArticle("dup-1"))
	if err != nil {
		t.Fatalf("duplicate enqueue must not error, got %v", err)
	}
	if ok {
		t.Fatal("duplicate enqueue should report false")
	}
}

// failingQueueStore wraps a real store.QueueStore but forces Claim to
// return a StorageError, to verify the Engine never swallows it.
type failingQueueStore struct {
	store.QueueStore
}

func (f *failingQueueStore) Claim(ctx context.Context, limit int) ([]*models.QueueItem, error) {
	return nil, apperr.StorageError("QueueStore.Claim", errors.New("connection refused"))
}

func TestEngineClaimPropagatesStorageError(t *testing.T) {
	e := New(&failingQueueStore{QueueStore: store.NewMemoryQueueStore()}, zap.NewNop())

	items, err := e.Claim(context.Background(), 10)
	if items != nil {
		t.Fatalf("expected nil items on error, got %+v", items)
	}
	if !apperr.IsStorageError(err) {
		t.Fatalf("expected StorageError to propagate, got %v", err)
	}
}

func TestEngineCompleteAndFailReportNoOpWithoutError(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	ok, err := e.Complete(ctx, "never-claimed")
	if err != nil {
		t.Fatalf("complete on unknown item should not error, got %v", err)
	}
	if ok {
		t.Fatal("complete on unknown item should report false")
	}

	ok, err = e.Fail(ctx, "never-claimed", "boom")
	if err != nil {
		t.Fatalf("fail on unknown item should not error, got %v", err)
	}
	if ok {
		t.Fatal("fail on unknown item should report false")
	}
}

func TestEngineStatusReflectsClaimedItems(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	if _, err := e.Enqueue(ctx, newTestArticle("s1")); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if _, err := e.Claim(ctx, 1); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	counts, err := e.Status(ctx)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if counts[models.StatusProcessing] != 1 {
		t.Fatalf("expected 1 processing item, got %d", counts[models.StatusProcessing])
	}
}

func TestEngineIsDuplicateChecksUnderlyingStore(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	dup, err := e.IsDuplicate(ctx, "not-there")
	if err != nil || dup {
		t.Fatalf("expected no duplicate for unseen id, got dup=%v err=%v", dup, err)
	}

	if _, err := e.Enqueue(ctx, newTestArticle("d2")); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	dup, err = e.IsDuplicate(ctx, "d2")
	if err != nil || !dup {
		t.Fatalf("expected duplicate after enqueue, got dup=%v err=%v", dup, err)
	}
}
