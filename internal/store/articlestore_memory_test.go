package store

import (
	"context"
	"testing"
	"time"

	"github.com/zionge2k/news-alert-system/internal/apperr"
	"github.com/zionge2k/news-alert-system/internal/models"
)

func newTestArticle(uniqueID, url string) *models.Article {
	return &models.Article{
		UniqueID:    uniqueID,
		Platform:    "YTN",
		URL:         url,
		Title:       "headline",
		CollectedAt: time.Now().UTC(),
	}
}

func TestInsertRejectsDuplicateUniqueID(t *testing.T) {
	s := NewMemoryArticleStore()
	ctx := context.Background()

	if _, err := s.Insert(ctx, newTestArticle("YTN_1", "https://ytn.co.kr/1")); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	_, err := s.Insert(ctx, newTestArticle("YTN_1", "https://ytn.co.kr/1-again"))
	if !apperr.IsDuplicate(err) {
		t.Fatalf("expected Duplicate error, got %v", err)
	}
}

func TestInsertRejectsDuplicateURL(t *testing.T) {
	s := NewMemoryArticleStore()
	ctx := context.Background()

	if _, err := s.Insert(ctx, newTestArticle("YTN_1", "https://ytn.co.kr/1")); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	_, err := s.Insert(ctx, newTestArticle("YTN_2", "https://ytn.co.kr/1"))
	if !apperr.IsDuplicate(err) {
		t.Fatalf("expected Duplicate error on shared url, got %v", err)
	}
}

func TestInsertRejectsMissingFields(t *testing.T) {
	s := NewMemoryArticleStore()
	_, err := s.Insert(context.Background(), &models.Article{Title: "no platform or url"})
	if !apperr.IsInvalidInput(err) {
		t.Fatalf("expected InvalidInput error, got %v", err)
	}
}

func TestFindByUniqueIDMissReturnsNilNotError(t *testing.T) {
	s := NewMemoryArticleStore()
	a, err := s.FindByUniqueID(context.Background(), "nope")
	if err != nil {
		t.Fatalf("expected no error on miss, got %v", err)
	}
	if a != nil {
		t.Fatalf("expected nil article on miss, got %+v", a)
	}
}

func TestFindOrdersByCollectedAtDescending(t *testing.T) {
	s := NewMemoryArticleStore()
	ctx := context.Background()

	now := time.Now().UTC()
	older := newTestArticle("a_1", "https://a.test/1")
	older.CollectedAt = now.Add(-2 * time.Hour)
	newer := newTestArticle("a_2", "https://a.test/2")
	newer.CollectedAt = now

	if _, err := s.Insert(ctx, older); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if _, err := s.Insert(ctx, newer); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	results, err := s.Find(ctx, ArticleFilter{})
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(results) != 2 || results[0].UniqueID != "a_2" || results[1].UniqueID != "a_1" {
		t.Fatalf("expected [a_2, a_1] order, got %+v", results)
	}
}

func TestFindRespectsSinceAndLimit(t *testing.T) {
	s := NewMemoryArticleStore()
	ctx := context.Background()
	now := time.Now().UTC()

	old := newTestArticle("b_1", "https://b.test/1")
	old.CollectedAt = now.Add(-3 * time.Hour)
	recent := newTestArticle("b_2", "https://b.test/2")
	recent.CollectedAt = now

	if _, err := s.Insert(ctx, old); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if _, err := s.Insert(ctx, recent); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	since := now.Add(-1 * time.Hour)
	results, err := s.Find(ctx, ArticleFilter{Since: &since})
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(results) != 1 || results[0].UniqueID != "b_2" {
		t.Fatalf("expected only b_2 within since window, got %+v", results)
	}
}
