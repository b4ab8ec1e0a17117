package store

import (
	"context"
	"sort"
	"sync"

	"github.com/zionge2k/news-alert-system/internal/apperr"
	"github.com/zionge2k/news-alert-system/internal/models"
)

// memoryArticleStore is an in-memory ArticleStore for tests. It satisfies
// the same uniqueness invariants as the Postgres implementation.
type memoryArticleStore struct {
	mu       sync.RWMutex
	byID     map[uint]*models.Article
	byUnique map[string]uint
	byURL    map[string]uint
	nextID   uint
}

// NewMemoryArticleStore returns an in-memory ArticleStore.
func NewMemoryArticleStore() ArticleStore {
	return &memoryArticleStore{
		byID:     make(map[uint]*models.Article),
		byUnique: make(map[string]uint),
		byURL:    make(map[string]uint),
	}
}

func (s *memoryArticleStore) Insert(ctx context.Context, a *models.Article) (uint, error) {
	if err := validateArticle(a); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUnique[a.UniqueID]; exists {
		return 0, apperr.Duplicate("ArticleStore.Insert", errArticleDuplicate)
	}
	if _, exists := s.byURL[a.URL]; exists {
		return 0, apperr.Duplicate("ArticleStore.Insert", errArticleDuplicate)
	}

	s.nextID++
	a.ID = s.nextID
	cp := *a
	s.byID[a.ID] = &cp
	s.byUnique[a.UniqueID] = a.ID
	s.byURL[a.URL] = a.ID
	return a.ID, nil
}

func (s *memoryArticleStore) FindByUniqueID(ctx context.Context, uniqueID string) (*models.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUnique[uniqueID]
	if !ok {
		return nil, nil
	}
	cp := *s.byID[id]
	return &cp, nil
}

func (s *memoryArticleStore) FindByURL(ctx context.Context, url string) (*models.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byURL[url]
	if !ok {
		return nil, nil
	}
	cp := *s.byID[id]
	return &cp, nil
}

func (s *memoryArticleStore) Find(ctx context.Context, filter ArticleFilter) ([]*models.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Article
	for _, a := range s.byID {
		if filter.Platform != "" && a.Platform != filter.Platform {
			continue
		}
		if filter.Category != "" && a.Category != filter.Category {
			continue
		}
		if filter.Since != nil && a.CollectedAt.Before(*filter.Since) {
			continue
		}
		cp := *a
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CollectedAt.After(result[j].CollectedAt)
	})

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}
