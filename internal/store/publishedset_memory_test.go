package store

import (
	"context"
	"testing"
	"time"
)

func TestPublishedSetAddIsIdempotent(t *testing.T) {
	s := NewMemoryPublishedSet()
	ctx := context.Background()

	if err := s.Add(ctx, "YTN_1", "YTN", "chan-1"); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if err := s.Add(ctx, "YTN_1", "YTN", "chan-1"); err != nil {
		t.Fatalf("second add should be a harmless no-op, got %v", err)
	}

	counts, err := s.CountByPlatform(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if counts["YTN"] != 1 {
		t.Fatalf("expected exactly one counted publish, got %d", counts["YTN"])
	}
}

func TestPublishedSetContains(t *testing.T) {
	s := NewMemoryPublishedSet()
	ctx := context.Background()

	hit, err := s.Contains(ctx, "missing")
	if err != nil || hit {
		t.Fatalf("expected miss for unpublished id, got hit=%v err=%v", hit, err)
	}

	if err := s.Add(ctx, "present", "MBC", "chan-1"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	hit, err = s.Contains(ctx, "present")
	if err != nil || !hit {
		t.Fatalf("expected hit for published id, got hit=%v err=%v", hit, err)
	}
}

func TestPublishedSetCountByPlatformAggregates(t *testing.T) {
	s := NewMemoryPublishedSet()
	ctx := context.Background()

	if err := s.Add(ctx, "a", "YTN", "c1"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := s.Add(ctx, "b", "YTN", "c1"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := s.Add(ctx, "c", "MBC", "c1"); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	counts, err := s.CountByPlatform(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if counts["YTN"] != 2 || counts["MBC"] != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}

func TestPublishedSetCleanRemovesOnlyOldEntries(t *testing.T) {
	s := NewMemoryPublishedSet().(*memoryPublishedSet)
	ctx := context.Background()

	if err := s.Add(ctx, "old", "YTN", "c1"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := s.Add(ctx, "recent", "YTN", "c1"); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	s.mu.Lock()
	s.at["old"] = time.Now().UTC().Add(-48 * time.Hour)
	s.mu.Unlock()

	n, err := s.Clean(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("clean failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 entry cleaned, got %d", n)
	}

	hit, _ := s.Contains(ctx, "old")
	if hit {
		t.Fatal("old entry should have been removed")
	}
	hit, _ = s.Contains(ctx, "recent")
	if !hit {
		t.Fatal("recent entry should still be present")
	}
}
