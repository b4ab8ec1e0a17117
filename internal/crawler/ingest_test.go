package crawler

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/zionge2k/news-alert-system/internal/store"
)

var errTestFetch = errors.New("upstream feed unavailable")

func TestRunCycleSkipsAlreadyKnownUniqueID(t *testing.T) {
	articles := store.NewMemoryArticleStore()
	ctx := context.Background()

	adapters := map[string]Adapter{
		"ytn": &fakeAdapter{tag: "ytn", candidates: []Candidate{
			{Platform: "YTN", ArticleID: "1", URL: "https://ytn.co.kr/1", Title: "first", Content: "body"},
		}},
	}

	first := RunCycle(ctx, adapters, articles, zap.NewNop())
	if first.Inserted != 1 || first.Skipped != 0 {
		t.Fatalf("expected 1 inserted on first pass, got %+v", first)
	}

	second := RunCycle(ctx, adapters, articles, zap.NewNop())
	if second.Inserted != 0 || second.Skipped != 1 {
		t.Fatalf("expected dedup to skip the repeat candidate, got %+v", second)
	}
}

func TestRunCycleSkipsDuplicateURLWhenArticleIDMissing(t *testing.T) {
	articles := store.NewMemoryArticleStore()
	ctx := context.Background()

	adapters := map[string]Adapter{
		"rss": &fakeAdapter{tag: "rss", candidates: []Candidate{
			{Platform: "JTBC", URL: "https://jtbc.co.kr/story", Title: "story"},
		}},
	}

	first := RunCycle(ctx, adapters, articles, zap.NewNop())
	if first.Inserted != 1 {
		t.Fatalf("expected 1 inserted, got %+v", first)
	}

	second := RunCycle(ctx, adapters, articles, zap.NewNop())
	if second.Skipped != 1 || second.Inserted != 0 {
		t.Fatalf("expected url-based dedup to skip the repeat, got %+v", second)
	}
}

func TestRunCycleRecordsFailedSourcesSeparatelyFromSkips(t *testing.T) {
	articles := store.NewMemoryArticleStore()
	ctx := context.Background()

	adapters := map[string]Adapter{
		"broken": &fakeAdapter{tag: "broken", err: errTestFetch},
		"ok": &fakeAdapter{tag: "ok", candidates: []Candidate{
			{Platform: "SBS", URL: "https://sbs.co.kr/1", Title: "headline"},
		}},
	}

	result := RunCycle(ctx, adapters, articles, zap.NewNop())
	if result.Inserted != 1 {
		t.Fatalf("expected the healthy source to still insert, got %+v", result)
	}
	if _, ok := result.Failed["broken"]; !ok {
		t.Fatalf("expected broken source to be recorded in Failed, got %+v", result)
	}
}
